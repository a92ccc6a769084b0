package resolver

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dejo1307/symfonymcp/internal/schema"
)

const doctrineXML = `<?xml version="1.0" encoding="UTF-8"?>
<config>
    <doctrine>
        <dbal default-connection="default">
            <!-- prototype -->
            <connection dbname="null" host="localhost">
                <option key="value"/>
            </connection>
        </dbal>
        <orm default-entity-manager="default">
            <!-- prototype -->
            <connection dbname="null" port="3306"/>
            <!-- prototype -->
            <entity-manager connection="default">
                <!-- prototype -->
                <mapping type="annotation" dir="src"/>
            </entity-manager>
        </orm>
    </doctrine>
    <framework secret="">
        <session handler-id="null"/>
    </framework>
</config>`

func parse(t *testing.T) *schema.Document {
	t.Helper()
	doc, err := schema.ParseBytes([]byte(doctrineXML), "test")
	require.NoError(t, err)
	return doc
}

func TestResolve(t *testing.T) {
	doc := parse(t)

	tests := []struct {
		name     string
		path     []string
		wantPath string
	}{
		{"root section", []string{"doctrine"}, "config/doctrine"},
		{"direct child", []string{"doctrine", "orm"}, "config/doctrine/orm"},
		{"first descendant in document order", []string{"doctrine", "connection"}, "config/doctrine/dbal/connection"},
		{"singular fallback", []string{"doctrine", "orm", "connections"}, "config/doctrine/orm/connection"},
		{"instance key skipped", []string{"doctrine", "orm", "connections", "default"}, "config/doctrine/orm/connection"},
		{"plural entity managers", []string{"doctrine", "orm", "entity-managers", "em"}, "config/doctrine/orm/entity-manager"},
		{"nested prototypes", []string{"doctrine", "orm", "entity-managers", "em", "mappings", "App"}, "config/doctrine/orm/entity-manager/mapping"},
		{"match after instance key", []string{"doctrine", "dbal", "connections", "default", "option"}, "config/doctrine/dbal/connection/option"},
		{"non prototype", []string{"framework", "session"}, "config/framework/session"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, ok := Resolve(doc, tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.wantPath, node.Path())
		})
	}
}

func TestResolve_NotFound(t *testing.T) {
	doc := parse(t)

	tests := []struct {
		name string
		path []string
	}{
		{"empty path", nil},
		{"unknown root", []string{"monolog"}},
		{"no singular fallback at root", []string{"doctrines"}},
		{"nested element is not a root", []string{"orm"}},
		{"unknown child", []string{"doctrine", "odm"}},
		{"unknown after instance key", []string{"doctrine", "orm", "connections", "default", "nope"}},
		{"no backtracking", []string{"doctrine", "dbal", "mapping"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, ok := Resolve(doc, tt.path)
			assert.False(t, ok)
			assert.Nil(t, node)
		})
	}

	_, ok := Resolve(nil, []string{"doctrine"})
	assert.False(t, ok)
}

func TestTrace(t *testing.T) {
	doc := parse(t)

	res, err := Trace(doc, []string{"doctrine", "orm", "connections", "default"})
	require.NoError(t, err)
	assert.Equal(t, []Step{
		{Segment: "doctrine", Matched: "doctrine", Node: "config/doctrine"},
		{Segment: "orm", Matched: "orm", Node: "config/doctrine/orm"},
		{Segment: "connections", Matched: "connection", Node: "config/doctrine/orm/connection", Singular: true, Prototype: true},
		{Segment: "default", InstanceKey: true},
	}, res.Steps)
	v, _ := res.Node.Attr("dbname")
	assert.Equal(t, "null", v)
}

func TestTrace_PrototypeWithoutInstanceKey(t *testing.T) {
	doc := parse(t)

	res, err := Trace(doc, []string{"doctrine", "orm", "connections"})
	require.NoError(t, err)
	require.Len(t, res.Steps, 3)
	assert.True(t, res.Steps[2].Prototype)
	assert.Equal(t, "connection", res.Node.Name)
}

func TestTrace_Miss(t *testing.T) {
	doc := parse(t)

	_, err := Trace(doc, []string{"doctrine", "odm"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResolutionMiss))
	assert.Contains(t, err.Error(), `"odm"`)
	assert.Contains(t, err.Error(), "config/doctrine")

	_, err = Trace(doc, nil)
	assert.True(t, errors.Is(err, ErrResolutionMiss))
}
