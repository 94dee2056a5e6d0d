package zookeeper

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceOrdering(t *testing.T) {
	children := []string{
		"_c_9f2b-lock-0000000012",
		"_c_01aa-lock-0000000010",
		"_c_77cd-lock-0000000011",
	}
	sort.Slice(children, func(i, j int) bool { return sequence(children[i]) < sequence(children[j]) })

	assert.Equal(t, []string{
		"_c_01aa-lock-0000000010",
		"_c_77cd-lock-0000000011",
		"_c_9f2b-lock-0000000012",
	}, children)
	assert.Equal(t, "plain", sequence("plain"))
}
