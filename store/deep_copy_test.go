package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type profile struct {
	Name    string
	Tags    []string
	Extra   map[string]any
	Parent  *profile
	private []int
}

func TestDeepCopy(t *testing.T) {
	t.Run("primitives", func(t *testing.T) {
		assert.Nil(t, deepCopy(nil))
		assert.Equal(t, 42, deepCopy(42))
		assert.Equal(t, "hello", deepCopy("hello"))
		assert.Equal(t, 3.14, deepCopy(3.14))
	})

	t.Run("map", func(t *testing.T) {
		original := map[string]struct{}{"google": {}}
		copied := deepCopy(original).(map[string]struct{})
		copied["bing"] = struct{}{}

		assert.Len(t, original, 1)
		assert.Len(t, copied, 2)
	})

	t.Run("nil_map_stays_nil", func(t *testing.T) {
		var original map[string]int
		copied := deepCopy(original).(map[string]int)
		assert.Nil(t, copied)
	})

	t.Run("slice_and_array", func(t *testing.T) {
		slice := []string{"a", "b"}
		copiedSlice := deepCopy(slice).([]string)
		copiedSlice[0] = "z"
		assert.Equal(t, []string{"a", "b"}, slice)

		array := [2]int{1, 2}
		copiedArray := deepCopy(array).([2]int)
		assert.Equal(t, array, copiedArray)
	})

	t.Run("struct_pointer", func(t *testing.T) {
		original := &profile{
			Name:    "child",
			Tags:    []string{"x"},
			Extra:   map[string]any{"list": []int{1}},
			Parent:  &profile{Name: "parent"},
			private: []int{7},
		}

		copied := deepCopy(original).(*profile)
		assert.Equal(t, original, copied)
		assert.NotSame(t, original, copied)
		assert.NotSame(t, original.Parent, copied.Parent)

		copied.Tags[0] = "y"
		copied.Extra["list"].([]int)[0] = 9
		copied.Parent.Name = "other"

		assert.Equal(t, "x", original.Tags[0])
		assert.Equal(t, []int{1}, original.Extra["list"])
		assert.Equal(t, "parent", original.Parent.Name)
		assert.Equal(t, []int{7}, copied.private, "unexported fields are carried over")
	})
}
