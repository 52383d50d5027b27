package thirdparty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	record, err := Flatten([]byte(`{"a":{"b":"x","c":null},"d":[1,2],"e":[],"f":["x","y"]}`))
	require.NoError(t, err)
	assert.Equal(t, Record{
		"a_b": StringValue("x"),
		"d":   StringValue("1, 2"),
		"f":   StringValue("x, y"),
	}, record)
}

func TestFlatten_Scalars(t *testing.T) {
	record, err := Flatten([]byte(`{"name":"Acme","employees":12,"listed":false,"address":{"city":"Lyon","geo":{"lat":45.7}}}`))
	require.NoError(t, err)
	assert.Equal(t, Record{
		"name":            StringValue("Acme"),
		"employees":       NumberValue(12),
		"listed":          BoolValue(false),
		"address_city":    StringValue("Lyon"),
		"address_geo_lat": NumberValue(45.7),
	}, record)
}

func TestFlatten_ArrayOfObjects(t *testing.T) {
	record, err := Flatten([]byte(`{"officers":[{"name":"Ada","age":36},{"name":"Grace"}]}`))
	require.NoError(t, err)
	assert.Equal(t, StringValue("\"name\": \"Ada\",\n\"age\": 36\n\n\n\"name\": \"Grace\"\n"), record["officers"])
}

func TestFlatten_KeysWithPathSyntax(t *testing.T) {
	record, err := Flatten([]byte(`{"ContactID":{"$":"42"},"a.b":"dot"}`))
	require.NoError(t, err)
	assert.Equal(t, Record{
		"ContactID_$": StringValue("42"),
		"a.b":         StringValue("dot"),
	}, record)
}

func TestFlatten_Invalid(t *testing.T) {
	_, err := Flatten([]byte(`{"a":`))
	assert.EqualError(t, err, "invalid json")

	_, err = Flatten([]byte(`[1,2]`))
	assert.EqualError(t, err, "only json objects can be flattened")
}
