package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"techtree-backend/application/ports"
	"techtree-backend/domain/core/aggregates/fixtures"
	"techtree-backend/domain/core/entities"
	pkgerrors "techtree-backend/pkg/errors"
)

func TestBuildPrompt(t *testing.T) {
	// Arrange
	tree := fixtures.NewTreeBuilder().
		WithSpec(entities.NodeSpec{ID: "tokamak", Label: "Tokamak", Category: "ReactorConcept", TRL: 6, Description: "short", DetailedDescription: "detailed"}).
		WithSpec(entities.NodeSpec{ID: "q1", Label: "Breakeven", Category: "Milestone", Description: "short only"}).
		WithSpec(entities.NodeSpec{ID: "hts", Label: "HTS", Category: "EnablingTechnology"}).
		WithEdge("tokamak", "q1").
		MustBuild()
	sel, err := Select(tree, ViewState{FocusNodeID: "tokamak"})
	require.NoError(t, err)

	// Act
	prompt := BuildPrompt("  Why tokamaks?  ", ContextFromSelection(sel))

	// Assert
	want := strings.Join([]string{
		"Here is the current tech tree context:",
		"",
		"NODES:",
		"Node: Tokamak (ReactorConcept)",
		"  - ID: tokamak",
		"  - Category: ReactorConcept",
		"  - TRL Current: 6",
		"  - Description: detailed",
		"",
		"Node: Breakeven (Milestone)",
		"  - ID: q1",
		"  - Category: Milestone",
		"  - TRL Current: N/A",
		"  - Description: short only",
		"",
		"EDGES (dependencies):",
		"Edge: tokamak → q1",
		"",
		"Currently selected node: Tokamak (ReactorConcept)",
		"",
		"User question: Why tokamaks?",
	}, "\n")
	assert.Equal(t, want, prompt)
}

func TestBuildPrompt_NoDescription(t *testing.T) {
	tree := fixtures.NewTreeBuilder().WithNode("x", "Milestone").MustBuild()
	sel, err := Select(tree, ViewState{})
	require.NoError(t, err)

	prompt := BuildPrompt("q", ContextFromSelection(sel))

	assert.Contains(t, prompt, "  - Description: No description available")
	assert.NotContains(t, prompt, "Currently selected node")
}

func TestAssistantBridge_Ask(t *testing.T) {
	// Arrange
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(req ports.GenerateRequest) bool {
		return req.MaxOutputTokens == 2000 &&
			req.Temperature == float32(0.7) &&
			req.SystemInstruction == SystemInstruction &&
			strings.HasSuffix(req.Prompt, "User question: hello")
	})).Return("<p>hi</p>", nil)
	bridge := NewAssistantBridge(gen, DefaultMaxOutputTokens, DefaultTemperature, nil, zap.NewNop())

	// Act
	answer, err := bridge.Ask(context.Background(), "hello", ChatContext{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", answer)
	gen.AssertExpectations(t)
}

func TestAssistantBridge_RejectsBlankQuestion(t *testing.T) {
	gen := new(MockGenerator)
	bridge := NewAssistantBridge(gen, 0, DefaultTemperature, nil, zap.NewNop())

	_, err := bridge.Ask(context.Background(), " \n\t ", ChatContext{})

	assert.True(t, pkgerrors.IsValidation(err))
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestAssistantBridge_Disabled(t *testing.T) {
	bridge := NewAssistantBridge(nil, 0, DefaultTemperature, nil, zap.NewNop())

	_, err := bridge.Ask(context.Background(), "hello", ChatContext{})

	assert.False(t, bridge.Enabled())
	assert.Equal(t, "", bridge.Model())
	assert.True(t, pkgerrors.IsConfiguration(err))
}

func TestAssistantBridge_ModelFailureIsExternal(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded")).Once()
	bridge := NewAssistantBridge(gen, 0, DefaultTemperature, nil, zap.NewNop())

	_, err := bridge.Ask(context.Background(), "hello", ChatContext{})

	assert.True(t, pkgerrors.IsExternal(err))
	gen.AssertNumberOfCalls(t, "Generate", 1)
}
