// Package assist is the boundary to the two external collaborators: the header-mapping
// classifier and the natural-language rule generator. Both are reached over HTTP and
// may answer with raw model text, so every response goes through ExtractJSON and is
// coerced to a safe default when it cannot be understood. Nothing a collaborator
// returns is trusted: mappings are normalized and generated rules are re-validated
// locally.
package assist
