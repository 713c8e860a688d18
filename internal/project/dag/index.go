package dag

import (
	"fmt"

	"fortio.org/safecast"

	"liveweave/internal/live"
)

type ModuleID uint32

type ModuleIndex struct {
	NameToID map[live.CrateModule]ModuleID
	IDToName []live.CrateModule
}

// ID раздаются в порядке order: меньший ID - выше приоритет при топосортировке.
// Повторы игнорируются.
func BuildIndex(order []live.CrateModule) ModuleIndex {
	idx := ModuleIndex{
		NameToID: make(map[live.CrateModule]ModuleID, len(order)),
		IDToName: make([]live.CrateModule, 0, len(order)),
	}
	for _, cm := range order {
		if _, dup := idx.NameToID[cm]; dup {
			continue
		}
		idx.NameToID[cm] = toID(len(idx.IDToName))
		idx.IDToName = append(idx.IDToName, cm)
	}
	return idx
}

func toID(i int) ModuleID {
	id, err := safecast.Conv[ModuleID](i)
	if err != nil {
		panic(fmt.Errorf("module id overflow: %w", err))
	}
	return id
}
