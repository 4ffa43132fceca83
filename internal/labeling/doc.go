// Package labeling finds connected components in Binary images and renders
// them: Paint recolors each qualifying component, Overlay draws its bounding
// box and id.
package labeling
