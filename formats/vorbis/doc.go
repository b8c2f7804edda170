// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis for files the header package recognizes
// as header.Ogg. Decoding is delegated to github.com/jfreymuth/oggvorbis,
// which already yields normalized float32 samples.
package vorbis
