package enum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type questStatus string

var (
	available = New(questStatus("available"))
	claimed   = New(questStatus("claimed"))
)

func TestToEnum(t *testing.T) {
	got, err := ToEnum[questStatus]("available")
	require.NoError(t, err)
	require.Equal(t, available, got)

	got, err = ToEnum[questStatus]("claimed")
	require.NoError(t, err)
	require.Equal(t, claimed, got)

	_, err = ToEnum[questStatus]("defeated")
	require.Error(t, err)
}
