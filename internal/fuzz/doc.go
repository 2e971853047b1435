// Package fuzztests houses Go fuzz harnesses for the front end and the tree
// builder (source -> lexer -> parser -> arena). Its goal is to smoke test
// robustness and guard against panics, hangs and malformed step streams on
// arbitrary inputs.
//
// Назначение: прогонять байты через лексер, парсер и построитель дерева.
//
// Не делает: генерацию корпусов, чтение модулей с диска, выполнение CLI.
package fuzztests
