package path_test

import (
	"testing"

	"github.com/coldforge/typelang/pkg/tl/path"
	"github.com/coldforge/typelang/pkg/util/assert"
)

func TestFromColonDelimited(t *testing.T) {
	p := path.FromColonDelimited("a::b::c")
	assert.Equal(t, "a::b::c", p.String())
	assert.Equal(t, []string{"a", "b", "c"}, p.Segments())
	assert.Equal(t, 3, p.Depth())
	assert.Equal(t, "c", p.Last())
}

func TestEmptyPath(t *testing.T) {
	p := path.Empty()
	assert.True(t, p.IsEmpty())
	assert.Equal(t, "", p.String())
	assert.Equal(t, p, p.Parent())
}

func TestJoinAndParent(t *testing.T) {
	p := path.FromColonDelimited("a::b")
	q := p.Join("c")
	assert.Equal(t, "a::b::c", q.String())
	assert.Equal(t, p, q.Parent())
}

func TestComparable(t *testing.T) {
	a := path.FromColonDelimited("a::b")
	b := path.FromColonDelimited("a::b")
	assert.True(t, a == b)
}

func TestFromFilePath(t *testing.T) {
	p := path.FromFilePath("/root/proj", "/root/proj/a/b.tl")
	assert.Equal(t, "a::b", p.String())
}

func TestFromColonDelimitedWithLeadingSeparator(t *testing.T) {
	p := path.FromColonDelimited("::a::b")
	assert.Equal(t, "a::b", p.String())
}
