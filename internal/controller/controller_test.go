package controller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrsmith/dedupe/internal/entities"
)

// scriptedPort is a fake operator.Port that answers ReadLine from a
// preloaded script and records every emitted/prompted line for assertions.
type scriptedPort struct {
	script  []string
	pos     int
	emitted []string
	errors  []string
	prompts []string
}

func newScriptedPort(script ...string) *scriptedPort {
	return &scriptedPort{script: script}
}

func (p *scriptedPort) Prompt(line string) { p.prompts = append(p.prompts, line) }

func (p *scriptedPort) PromptYesNo(question string, def bool) bool {
	p.prompts = append(p.prompts, question)
	line, ok := p.ReadLine()
	if !ok || line == "" {
		return def
	}
	return line[0] == 'y' || line[0] == 'Y'
}

func (p *scriptedPort) ReadLine() (string, bool) {
	if p.pos >= len(p.script) {
		return "", false
	}
	line := p.script[p.pos]
	p.pos++
	return line, true
}

func (p *scriptedPort) Emit(line string)      { p.emitted = append(p.emitted, line) }
func (p *scriptedPort) EmitError(line string) { p.errors = append(p.errors, line) }

func samplePlan() *entities.RetentionPlan {
	now := time.Unix(1000, 0)
	result := &entities.ScanResult{
		Groups: []entities.DuplicateGroup{
			{Files: []entities.FileRecord{
				{Path: "/a/1.txt", Size: 100, ModTime: now},
				{Path: "/a/2.txt", Size: 100, ModTime: now.Add(time.Hour)},
			}},
		},
	}
	return entities.NewRetentionPlan(result)
}

func TestEditGroupAcceptsDigitSelection(t *testing.T) {
	port := newScriptedPort("2")
	ctl := New(port)
	plan := samplePlan()

	ctl.editGroup(plan, 1)

	assert.True(t, plan.Keep[0].Contains(2))
	assert.False(t, plan.Keep[0].Contains(1))
	assert.Empty(t, port.errors)
}

func TestEditGroupRejectsNonDigitCharacters(t *testing.T) {
	port := newScriptedPort("2x")
	ctl := New(port)
	plan := samplePlan()

	ctl.editGroup(plan, 1)

	require.Len(t, port.errors, 1)
	assert.True(t, plan.Keep[0].Contains(1))
}

func TestEditGroupRejectsEmptySelection(t *testing.T) {
	port := newScriptedPort("")
	ctl := New(port)
	plan := samplePlan()

	ctl.editGroup(plan, 1)

	require.Len(t, port.errors, 1)
	assert.True(t, plan.Keep[0].Contains(1))
}

func TestEditGroupOutOfRangeGroup(t *testing.T) {
	port := newScriptedPort()
	ctl := New(port)
	plan := samplePlan()

	ctl.editGroup(plan, 99)

	require.Len(t, port.errors, 1)
}

func TestRunDispatchesBareIndexAndDone(t *testing.T) {
	port := newScriptedPort("1", "2", "done")
	ctl := New(port)
	plan := samplePlan()

	returned := ctl.Run(plan)

	assert.Same(t, plan, returned)
	assert.True(t, plan.Keep[0].Contains(2))
}

func TestRunStopsOnEOF(t *testing.T) {
	port := newScriptedPort()
	ctl := New(port)
	plan := samplePlan()

	returned := ctl.Run(plan)
	assert.Same(t, plan, returned)
}

func TestAutoAppliesStrategyToOneGroup(t *testing.T) {
	port := newScriptedPort("1", "2")
	ctl := New(port)
	plan := samplePlan()

	ctl.auto(plan)

	assert.True(t, plan.Keep[0].Contains(1))
}

func TestAllAppliesStrategyToEveryGroup(t *testing.T) {
	port := newScriptedPort("2")
	ctl := New(port)
	plan := samplePlan()

	ctl.all(plan)

	assert.True(t, plan.Keep[0].Contains(1))
}

func TestPreviewEmitsReclaimSummary(t *testing.T) {
	port := newScriptedPort()
	ctl := New(port)
	plan := samplePlan()

	ctl.Preview(plan)

	require.Len(t, port.emitted, 1)
	assert.Contains(t, port.emitted[0], "deletable files: 1")
}
