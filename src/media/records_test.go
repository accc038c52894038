package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeRecordSet(t *testing.T) {
	assert.Equal(t, Imported, Success.RecordSet())
	assert.Equal(t, Imported, SuccessDuplicate.RecordSet())
	assert.Equal(t, Errored, Failure.RecordSet())
	assert.Equal(t, Errored, TimedOut.RecordSet())
}

func TestRecords_AddCleansPaths(t *testing.T) {
	r := NewRecords()
	r.Add(Imported, "/photos/2020/../2021/a.jpg")
	r.Add(Errored, "")

	assert.True(t, r.Contains(Imported, "/photos/2021/a.jpg"))
	assert.True(t, r.Contains(Imported, "/photos//2021/./a.jpg"))
	assert.False(t, r.Contains(Errored, "/photos/2021/a.jpg"))
	assert.Empty(t, r.Errored)
}

func TestRecords_CasePreserved(t *testing.T) {
	r := NewRecords()
	r.Add(Imported, "/photos/IMG_1.JPG")

	assert.True(t, r.Contains(Imported, "/photos/IMG_1.JPG"))
	assert.False(t, r.Contains(Imported, "/photos/img_1.jpg"))
}
