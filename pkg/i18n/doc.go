// Package i18n loads translation catalogs and turns them into the translate
// function the exporters take.
//
// A catalog maps message keys such as "cboard.symbol.eat" to strings. It can
// be written as JSON, YAML or TOML; nested tables are flattened with dots, so
//
//	[cboard.symbol]
//	eat = "Eat"
//
// and {"cboard.symbol.eat": "Eat"} load the same key. Missing keys translate
// to themselves.
package i18n
