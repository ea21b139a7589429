package enum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("create a enum of string", func(t *testing.T) {
		type EnumString string

		bar := New(EnumString("bar"))
		require.Equal(t, EnumString("bar"), bar)

		v, err := ToEnum[EnumString]("bar")
		require.NoError(t, err)
		require.Equal(t, bar, v)

		_, err = ToEnum[EnumString]("Bar")
		require.Error(t, err)
	})

	t.Run("create a enum of int", func(t *testing.T) {
		type EnumInt int

		bar := New(EnumInt(100))
		require.Equal(t, EnumInt(100), bar)

		v, err := ToEnum[EnumInt]("100")
		require.NoError(t, err)
		require.Equal(t, bar, v)

		_, err = ToEnum[EnumInt]("101")
		require.Error(t, err)
	})

	t.Run("unregistered type", func(t *testing.T) {
		type Unregistered string

		_, err := ToEnum[Unregistered]("x")
		require.Error(t, err)
	})
}
