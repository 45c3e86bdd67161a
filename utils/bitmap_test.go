package utils

import (
	"testing"
)

func TestBitmapSetAndGrow(t *testing.T) {
	var bm Bitmap
	if bm.QuickSet(3) {
		t.Error("QuickSet should fail before growth")
	}
	bm.Set(3)
	bm.Set(200)
	if got := bm.FirstUnused(); got != 0 {
		t.Error("first unused is ", got, " expected 0")
	}
	if !bm.QuickSet(0) {
		t.Error("QuickSet should succeed after growth")
	}
	if got := bm.FirstUnused(); got != 1 {
		t.Error("first unused is ", got, " expected 1")
	}
}

func TestBitmapZeroes(t *testing.T) {
	var bm Bitmap
	for i := uint32(0); i < 130; i++ {
		bm.Set(i)
	}
	if got := bm.FirstUnused(); got != 130 {
		t.Error("first unused is ", got, " expected 130")
	}
	bm.Zeroes()
	if got := bm.FirstUnused(); got != 0 {
		t.Error("first unused after Zeroes is ", got, " expected 0")
	}
}
