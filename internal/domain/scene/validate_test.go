package scene

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const elementJSON = `{
	"id": "el-1",
	"type": "rectangle",
	"x": 120,
	"y": -40,
	"width": 184,
	"height": 184,
	"angle": 0.5,
	"strokeColor": "#1e1e1e",
	"backgroundColor": "transparent",
	"fillStyle": "solid",
	"strokeWidth": 2,
	"strokeStyle": "solid",
	"roughness": 1,
	"opacity": 100,
	"groupIds": ["g-1"],
	"frameId": "frame-1",
	"roundness": {"type": 3},
	"points": null
}`

func decodeMap(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return m
}

func newElement(t *testing.T, overrides map[string]any) map[string]any {
	t.Helper()
	el := decodeMap(t, elementJSON)
	for k, v := range overrides {
		if v == nil {
			delete(el, k)
			continue
		}
		el[k] = v
	}
	return el
}

func newPayload(t *testing.T, elements ...map[string]any) map[string]any {
	t.Helper()
	list := make([]any, 0, len(elements))
	for _, el := range elements {
		list = append(list, el)
	}
	return map[string]any{
		"elements": list,
		"appState": map[string]any{
			"gridSize":            20.0,
			"gridStep":            5.0,
			"gridModeEnabled":     false,
			"viewBackgroundColor": "#ffffff",
		},
		"files": map[string]any{},
	}
}

func requireSchemaError(t *testing.T, err error) *SchemaValidationError {
	t.Helper()
	require.Error(t, err)
	var schemaErr *SchemaValidationError
	require.ErrorAs(t, err, &schemaErr)
	return schemaErr
}

func TestValidateAcceptsEveryShapeAndRoundTrips(t *testing.T) {
	for _, shape := range Shapes() {
		t.Run(string(shape), func(t *testing.T) {
			overrides := map[string]any{"type": string(shape)}
			if shape == ShapeFreedraw {
				overrides["points"] = []any{[]any{0.0, 0.0}, []any{-1.0, 0.5}}
			}
			input := newElement(t, overrides)

			s, err := Validate(newPayload(t, input))
			require.NoError(t, err)
			require.Len(t, s.Elements, 1)
			assert.Equal(t, shape, s.Elements[0].Type)

			out, err := json.Marshal(s.Elements[0])
			require.NoError(t, err)
			got := decodeMap(t, string(out))

			for key, want := range input {
				if key == "groupIds" || key == "frameId" {
					continue
				}
				assert.Equal(t, want, got[key], "field %s", key)
			}
		})
	}
}

func TestValidateRejectsUnknownShape(t *testing.T) {
	_, err := Validate(newPayload(t, newElement(t, map[string]any{"type": "triangle"})))

	schemaErr := requireSchemaError(t, err)
	assert.True(t, schemaErr.Has("elements[0].type", ReasonNotAllowed), schemaErr.Error())
}

func TestValidateColorAsymmetry(t *testing.T) {
	t.Run("named stroke color rejected", func(t *testing.T) {
		_, err := Validate(newPayload(t, newElement(t, map[string]any{"strokeColor": "blue"})))
		schemaErr := requireSchemaError(t, err)
		assert.True(t, schemaErr.Has("elements[0].strokeColor", ReasonPatternMismatch), schemaErr.Error())
	})

	t.Run("transparent background accepted", func(t *testing.T) {
		s, err := Validate(newPayload(t, newElement(t, map[string]any{"backgroundColor": "transparent"})))
		require.NoError(t, err)
		assert.Equal(t, "transparent", s.Elements[0].BackgroundColor)
		assert.False(t, s.Elements[0].HasHexBackground())
	})

	t.Run("hex background accepted", func(t *testing.T) {
		s, err := Validate(newPayload(t, newElement(t, map[string]any{"backgroundColor": "#a5d8ff"})))
		require.NoError(t, err)
		assert.True(t, s.Elements[0].HasHexBackground())
	})

	t.Run("app state background must be hex", func(t *testing.T) {
		payload := newPayload(t, newElement(t, nil))
		payload["appState"].(map[string]any)["viewBackgroundColor"] = "white"
		_, err := Validate(payload)
		schemaErr := requireSchemaError(t, err)
		assert.True(t, schemaErr.Has("appState.viewBackgroundColor", ReasonPatternMismatch), schemaErr.Error())
	})
}

func TestIsHexColor(t *testing.T) {
	for _, ok := range []string{"#fff", "#FFFA", "#1e1e1e", "#1e1e1eff"} {
		assert.True(t, IsHexColor(ok), ok)
	}
	for _, bad := range []string{"fff", "#ff", "#fffff", "#1e1e1e1", "#ggg", "blue", ""} {
		assert.False(t, IsHexColor(bad), bad)
	}
}

func TestValidateDropsWriteOnlyFields(t *testing.T) {
	s, err := Validate(newPayload(t, newElement(t, nil)))
	require.NoError(t, err)

	el := s.Elements[0]
	assert.Equal(t, []string{"g-1"}, el.GroupIDs)
	assert.Equal(t, "frame-1", el.FrameID)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "groupIds")
	assert.NotContains(t, string(out), "frameId")
}

func TestValidateWriteOnlyFieldsAreOptional(t *testing.T) {
	_, err := Validate(newPayload(t, newElement(t, map[string]any{"groupIds": nil, "frameId": nil})))
	require.NoError(t, err)
}

func TestValidateAppliesEnvelopeDefaults(t *testing.T) {
	payload := newPayload(t, newElement(t, nil))

	s, err := Validate(payload)
	require.NoError(t, err)
	assert.Equal(t, "excalidraw", s.Type)
	assert.Equal(t, 2, s.Version)
	assert.Equal(t, "http://localhost:3000", s.Source)

	// 调用方的 map 不被修改
	assert.NotContains(t, payload, "type")
	assert.NotContains(t, payload, "version")
}

func TestValidateKeepsExplicitEnvelope(t *testing.T) {
	payload := newPayload(t, newElement(t, nil))
	payload["version"] = 3.0
	payload["source"] = "https://excalidraw.com"

	s, err := Validate(payload)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Version)
	assert.Equal(t, "https://excalidraw.com", s.Source)
}

func TestValidateRejectsWrongDiscriminator(t *testing.T) {
	payload := newPayload(t, newElement(t, nil))
	payload["type"] = "tldraw"

	_, err := Validate(payload)
	schemaErr := requireSchemaError(t, err)
	assert.True(t, schemaErr.Has("type", ReasonNotAllowed), schemaErr.Error())
}

func TestValidateAggregatesAllViolations(t *testing.T) {
	first := newElement(t, map[string]any{"type": "hexagon", "strokeColor": "red"})
	second := newElement(t, map[string]any{"id": nil})
	payload := newPayload(t, first, second)
	delete(payload, "files")
	payload["appState"].(map[string]any)["viewBackgroundColor"] = "#12"

	_, err := Validate(payload)
	schemaErr := requireSchemaError(t, err)

	assert.True(t, schemaErr.Has("elements[0].type", ReasonNotAllowed))
	assert.True(t, schemaErr.Has("elements[0].strokeColor", ReasonPatternMismatch))
	assert.True(t, schemaErr.Has("elements[1].id", ReasonMissing))
	assert.True(t, schemaErr.Has("appState.viewBackgroundColor", ReasonPatternMismatch))
	assert.True(t, schemaErr.Has("files", ReasonMissing))
	assert.Len(t, schemaErr.Violations, 5, schemaErr.Error())
}

func TestValidateReportsWrongTypesOnce(t *testing.T) {
	payload := newPayload(t, newElement(t, map[string]any{"x": "left"}))

	_, err := Validate(payload)
	schemaErr := requireSchemaError(t, err)

	assert.True(t, schemaErr.Has("elements[0].x", ReasonWrongType), schemaErr.Error())
	assert.False(t, schemaErr.Has("elements[0].x", ReasonMissing), schemaErr.Error())
}

func TestValidateRejectsFractionalIntegers(t *testing.T) {
	payload := newPayload(t, newElement(t, map[string]any{"width": 10.5}))

	_, err := Validate(payload)
	schemaErr := requireSchemaError(t, err)
	assert.True(t, schemaErr.Has("elements[0].width", ReasonNotInteger), schemaErr.Error())
}

func TestValidateRejectsIntegersOutOfRange(t *testing.T) {
	for _, v := range []float64{1e20, -1e20, 9223372036854775808} {
		payload := newPayload(t, newElement(t, map[string]any{"x": v}))

		_, err := Validate(payload)
		schemaErr := requireSchemaError(t, err)
		assert.True(t, schemaErr.Has("elements[0].x", ReasonOutOfRange), schemaErr.Error())
		assert.False(t, schemaErr.Has("elements[0].x", ReasonMissing), schemaErr.Error())
	}

	s, err := Validate(newPayload(t, newElement(t, map[string]any{"x": 1e15})))
	require.NoError(t, err)
	assert.Equal(t, 1000000000000000, s.Elements[0].X)
}

func TestValidateSkipsChildrenOfWrongTypedElement(t *testing.T) {
	payload := newPayload(t)
	payload["elements"] = []any{"x"}

	_, err := Validate(payload)
	schemaErr := requireSchemaError(t, err)

	require.Len(t, schemaErr.Violations, 1, schemaErr.Error())
	assert.Equal(t, "elements[0]", schemaErr.Violations[0].Path)
	assert.Equal(t, ReasonWrongType, schemaErr.Violations[0].Reason)
}

func TestCoveredBy(t *testing.T) {
	seen := map[string]bool{"elements[0]": true, "appState": true}

	assert.True(t, coveredBy(seen, "elements[0]"))
	assert.True(t, coveredBy(seen, "elements[0].id"))
	assert.True(t, coveredBy(seen, "appState.gridSize"))
	assert.False(t, coveredBy(seen, "elements[1].id"))
	assert.False(t, coveredBy(seen, "elements[0]x"))
	assert.False(t, coveredBy(seen, "files"))
}

func TestValidateIgnoresUnknownKeys(t *testing.T) {
	el := newElement(t, map[string]any{
		"seed":          1234.0,
		"customData":    map[string]any{"k": "v"},
		"boundElements": []any{},
	})
	payload := newPayload(t, el)
	payload["extra"] = "ignored"

	s, err := Validate(payload)
	require.NoError(t, err)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "seed")
	assert.NotContains(t, string(out), "customData")
	assert.NotContains(t, string(out), "extra")
}

func TestValidatePassesRoundnessAndFilesThrough(t *testing.T) {
	payload := newPayload(t, newElement(t, map[string]any{"roundness": []any{"anything", 1.0}}))
	payload["files"] = map[string]any{
		"file-1": map[string]any{"mimeType": "image/png", "dataURL": "data:image/png;base64,AAAA"},
	}

	s, err := Validate(payload)
	require.NoError(t, err)
	assert.Equal(t, []any{"anything", 1.0}, s.Elements[0].Roundness)
	assert.Contains(t, s.Files, "file-1")
}

func TestValidateDoesNotEnforcePointsForFreedrawOnly(t *testing.T) {
	el := newElement(t, map[string]any{"type": "rectangle", "points": []any{[]any{1.0, 2.0}}})

	s, err := Validate(newPayload(t, el))
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2}}, s.Elements[0].Points)
}

func TestParse(t *testing.T) {
	t.Run("non object", func(t *testing.T) {
		_, err := Parse([]byte(`[1, 2]`))
		schemaErr := requireSchemaError(t, err)
		require.Len(t, schemaErr.Violations, 1)
		assert.Equal(t, ReasonWrongType, schemaErr.Violations[0].Reason)
		assert.Equal(t, "", schemaErr.Violations[0].Path)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := Parse([]byte(`{"elements": [`))
		schemaErr := requireSchemaError(t, err)
		assert.Equal(t, ReasonInvalidJSON, schemaErr.Violations[0].Reason)
	})

	t.Run("valid scene", func(t *testing.T) {
		raw, err := json.Marshal(newPayload(t, newElement(t, nil), newElement(t, map[string]any{"type": "ellipse"})))
		require.NoError(t, err)

		s, err := Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, map[Shape]int{ShapeRectangle: 1, ShapeEllipse: 1}, s.CountByShape())
	})
}

func TestSchemaValidationErrorMessage(t *testing.T) {
	err := &SchemaValidationError{Violations: []Violation{
		{Path: "elements[0].type", Reason: ReasonNotAllowed, Message: "value \"x\" not in allowed set"},
		{Reason: ReasonWrongType, Message: "scene must be a JSON object"},
	}}

	assert.Equal(t,
		"2 validation error(s) for ExcalidrawScene\n"+
			"  elements[0].type: value \"x\" not in allowed set (not_in_allowed_set)\n"+
			"  (root): scene must be a JSON object (wrong_type)",
		err.Error())
	assert.Equal(t, []string{"elements[0].type", ""}, err.Paths())
}
