// Package costmap implements CostMap and the Programmable Cost Function
// (PCF) language used to bias the budgeted adversary's relay selection.
//
// Grounded on ShorTor's ProgrammableCostFunction (pcf.hpp/pcf.cpp) and its
// hand-written lexer/parser (pcf_parser.hpp): a PCF is an ordered list of
// (predicate, effect) pairs; committing a CostMap starts every relay at
// cost 1 and applies each PCF whose predicate matches, in order. The parser
// below is a small recursive-descent implementation of the same grammar
// (AND/OR/XOR/NOT over relay-field comparisons, SET/MUL/ADD effects),
// reimplemented directly against Go idiom rather than transliterated from
// the original's token-enum/exception-class lexer.
package costmap
