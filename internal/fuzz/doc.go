// Package fuzztests houses Go fuzz harnesses for the live pipeline
// (source -> lexer -> parser -> registry). They guard against panics, hangs
// and allocator explosions on arbitrary inputs.
//
// Назначение: загружать байты в FileSet и прогонять их через лексер, парсер
// и раскрытие реестра.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/parser,
// internal/registry, internal/diag, internal/live.
package fuzztests
