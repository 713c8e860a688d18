package live

type TargetKind uint8

const (
	TargetLocal TargetKind = iota // node of the document being expanded
	TargetUse                     // node of another module's expanded document
)

// ScopeTarget is what a scope binding points at.
type ScopeTarget struct {
	Kind   TargetKind
	Module CrateModule // TargetUse
	Ptr    LocalPtr
}

func LocalTarget(p LocalPtr) ScopeTarget { return ScopeTarget{Kind: TargetLocal, Ptr: p} }

func UseTarget(cm CrateModule, p LocalPtr) ScopeTarget {
	return ScopeTarget{Kind: TargetUse, Module: cm, Ptr: p}
}

// ScopeItem binds a name to a target.
type ScopeItem struct {
	Name   Name
	Target ScopeTarget
}

// Reexported turns local bindings captured in module from into bindings
// imported from that module, so copies keep their provenance.
func (s ScopeItem) Reexported(from CrateModule) ScopeItem {
	if s.Target.Kind == TargetLocal {
		s.Target = UseTarget(from, s.Target.Ptr)
	}
	return s
}
