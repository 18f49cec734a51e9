// Package segment splits phonemic transcriptions into segments.
//
// The default Tokenizer works on IPA-like input without a sound inventory:
// every base letter starts a segment, and combining marks and modifier
// letters attach to it. Tie bars join two base letters into one segment.
// Spaces become the word boundary "_" and hyphens the morpheme boundary
// "+". Symbols the tokenizer does not know are kept and reported, so a
// curator can decide how to transcribe them.
package segment
