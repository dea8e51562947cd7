package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/librus-sync/pkg/errors"
)

func TestSnapshotRoundTripKeepsDerivedFields(t *testing.T) {
	grades := []Grade{NewGrade(Grade{ID: 1, Category: GradeStandard, Value: "4+", Weight: 2, CountsToAverage: 1})}
	snap, err := NewSnapshot(DomainGrades, "grades", grades)
	require.NoError(t, err)
	assert.Equal(t, SnapshotVersion, snap.Version)

	var decoded []Grade
	require.NoError(t, snap.Decode(&decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, 4.5, decoded[0].AbsoluteValue)
}

func TestSnapshotDecodeRejectsOtherVersion(t *testing.T) {
	snap := &Snapshot{Version: SnapshotVersion + 1, Name: "grades", Records: []byte("[]")}
	var decoded []Grade
	err := snap.Decode(&decoded)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrSnapshotVersion))
}

func TestSnapshotName(t *testing.T) {
	period := PeriodOf(time.Date(2019, time.September, 3, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "events-2019-09", SnapshotName(DomainEvents, period))
	assert.Equal(t, "grades", SnapshotName(DomainGrades, period))
}

func TestParseDomain(t *testing.T) {
	d, ok := ParseDomain(" Grades ")
	assert.True(t, ok)
	assert.Equal(t, DomainGrades, d)

	_, ok = ParseDomain("homework")
	assert.False(t, ok)
}
