package driver

import (
	"crypto/sha256"
	"fmt"

	"liveweave/internal/project"
)

// workspaceDigest: H(salt || manifest || options || module1 || module2 ...)
// по модулям в порядке загрузки. Каждый модуль хешируется вместе с именем,
// поэтому переименование файла тоже инвалидирует кэш. Манифест и опции
// входят в ключ: от них зависят кэшированные диагностики.
func workspaceDigest(m *project.Manifest, mods []loadedModule, opts Options) project.Digest {
	parts := make([]project.Digest, 0, len(mods)+2)
	parts = append(parts, m.Digest(), optionsDigest(opts))
	for _, mod := range mods {
		parts = append(parts, project.ModuleDigest(mod.File.ModuleID(), mod.Hash))
	}
	return project.Combine(sha256.Sum256([]byte(cacheSalt)), parts...)
}

func optionsDigest(opts Options) project.Digest {
	return sha256.Sum256(fmt.Appendf(nil, "max_diagnostics=%d max_depth=%d max_errors=%d",
		opts.MaxDiagnostics, opts.Parser.MaxDepth, opts.Parser.MaxErrors))
}

// cacheSalt меняется вместе со схемой снапшота.
const cacheSalt = "liveweave/snapshot/v2"
