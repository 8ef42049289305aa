// Package io holds the host device models of a chip16 console: the video
// surface and the tone recorder, plus ROM images and state snapshots.
package io
