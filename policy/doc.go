// Package policy decides which task runs next.
//
// Rotation is plain round robin over the registry ring unless at least one
// task holds elevated priority, in which case the next elevated task in
// traversal order is preferred. An elevated task is not run exclusively: when
// a full lap finds no elevated candidate rotation falls back to the plain
// successor.
package policy
