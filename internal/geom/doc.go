// Package geom provides 2-D vector arithmetic and polygon geometry.
//
// Polygons are ordered vertex lists in world space. The winding of the
// vertices decides the sign of [Area]; [Centroid] is winding independent.
// A single-vertex polygon is a point whose centroid is the vertex itself.
//
// All functions are pure except the in-place [Polygon.Translate] and
// [Polygon.Rotate] helpers, which mutate the receiver.
package geom
