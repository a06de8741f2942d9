// Package format prints a parsed graph back as canonical shisp source.
//
// Назначение: `shisp fmt`. Листья копируются из исходника байт в байт,
// выражения печатаются в одну строку, если влезают в ширину, иначе
// по одному элементу на строку с отступом от '('.
// Комментарии сохраняются; пустые строки между формами верхнего уровня тоже.
// Зависимости: internal/ast, internal/source.
package format
