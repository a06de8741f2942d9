// Package fuzztests houses Go fuzz harnesses for the reader
// (source -> lexer -> parser). They smoke test robustness on arbitrary
// input and check the token tiling and forest invariants on every run.
//
// Назначение: загружать байты в FileSet и прогонять их через лексер/парсер.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
