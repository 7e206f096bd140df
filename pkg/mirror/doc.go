// Package mirror implements planar reflections with the mirrored-camera
// technique: each frame the main camera is reflected across the mirror
// plane, the scene is rendered offscreen from that mirrored pose, and
// the resulting texture is displayed on a quad lying in the plane.
package mirror
