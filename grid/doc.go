// Package grid computes the geometry of a regular grid of labels on a page.
//
// Two coordinate frames are used. Guide space has its origin at the bottom
// left of the page with y growing upwards; it is the frame alignment guides
// are expressed in. Drawing space has its origin at the top left with y
// growing downwards; shape primitives are expressed in it. The only
// conversion between the two is [ToDrawingY].
//
// A layout pass converts a physical [Spec] to internal units with
// [Spec.Convert], then calls [ComputeGuides] for edge and inset guides and
// [ComputeShapes] for one outline per label.
package grid
