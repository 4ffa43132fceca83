// Package detection finds geometric primitives in images and draws them
// back onto a Color copy of the input.
//
// # Primitives
//
//   - Lines: the standard Hough transform over a Binary image, reported in
//     polar form (rho, theta).
//   - Segments: Hough peaks traced back to runs of edge pixels, so each
//     result has real endpoints.
//   - Circles: gradient-directed Hough voting for centers, then a radius
//     vote per accepted center.
//   - Contours: border following (Suzuki–Abe) with a parent/child
//     hierarchy of outer borders and holes.
//   - Rectangles: external contours scored by how closely their length
//     matches the perimeter of their bounding box.
//
// Inputs that are not Binary are reduced to edges with the Canny detector
// where an operation accepts them.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - theta is measured from the X axis toward Y, so a horizontal line has
//     theta = π/2 and rho equal to its row
//
// # Results
//
// Every detector returns its overlay image together with the primitive
// list. Lists are empty, never nil, when nothing is found.
//
// # Performance Considerations
//
// Detection iterates over every pixel and every accumulator cell. For
// large images, crop to the region of interest first and keep radius and
// angle ranges tight.
package detection
