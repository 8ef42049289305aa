package io

import (
	"errors"

	"github.com/ezrec/chip16/translate"
)

var f = translate.From

var (
	// ROM image errors
	ErrRomMagic    = errors.New(f("rom header magic invalid"))
	ErrRomShort    = errors.New(f("rom image truncated"))
	ErrRomTooLarge = errors.New(f("rom image too large"))
	ErrRomChecksum = errors.New(f("rom checksum mismatch"))

	// Snapshot errors
	ErrSnapshotScreen = errors.New(f("snapshot screen invalid"))
)
