// Package sink holds the message sinks the engine reports progress to: a pterm
// console for operators and an in-order recorder used for transcripts and
// tests.
package sink
