// Package route models the route handed to the engine by an external
// route-optimization service and normalizes it for guidance.
//
// Routes arrive in one of three shapes: nested segments each carrying an
// instruction list, a flat top-level instruction list, or neither. Normalize
// flattens all three into one ordered step sequence, falling back to a single
// synthetic step when the route carries no instructions at all. Instruction
// text may contain simple HTML markup; the stripped plain form is captured
// once at normalization and used for spoken output.
package route
