package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePhase(t *testing.T) {
	tests := []struct {
		input   string
		want    Phase
		wantErr bool
	}{
		{input: "work", want: PhaseWork},
		{input: "WORK", want: PhaseWork},
		{input: "Break", want: PhaseBreak},
		{input: " break ", wantErr: true},
		{input: "break\n", wantErr: true},
		{input: "\twork\t", wantErr: true},
		{input: "works", wantErr: true},
		{input: "lunch", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			phase, err := ParsePhase(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPhaseName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, phase)
		})
	}
}

func TestPhaseHelpers(t *testing.T) {
	assert.Equal(t, uint32(1500), PhaseWork.DurationSecs())
	assert.Equal(t, uint32(300), PhaseBreak.DurationSecs())
	assert.Equal(t, StatusWorkReady, PhaseWork.ReadyStatus())
	assert.Equal(t, StatusBreakReady, PhaseBreak.ReadyStatus())
	assert.Equal(t, PhaseBreak, PhaseWork.Other())
	assert.Equal(t, PhaseWork, PhaseBreak.Other())
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Ready to work", Label(PhaseWork, StatusWorkReady))
	assert.Equal(t, "Ready to break", Label(PhaseBreak, StatusBreakReady))
	assert.Equal(t, "Working", Label(PhaseWork, StatusRunning))
	assert.Equal(t, "Break time", Label(PhaseBreak, StatusRunning))
	assert.Equal(t, "Paused (work)", Label(PhaseWork, StatusPaused))
	assert.Equal(t, "Paused (break)", Label(PhaseBreak, StatusPaused))
	assert.Equal(t, "Work completed", Label(PhaseWork, StatusComplete))
	assert.Equal(t, "Break completed", Label(PhaseBreak, StatusComplete))
}

func TestTimerStateWireFormat(t *testing.T) {
	state := TimerState{
		Phase:         PhaseWork,
		Status:        StatusWorkReady,
		RemainingSecs: 1500,
		DurationSecs:  1500,
		StateLabel:    "Ready to work",
	}
	raw, err := json.Marshal(state)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"phase": "work",
		"status": "workReady",
		"remainingSecs": 1500,
		"durationSecs": 1500,
		"completionFlag": false,
		"stateLabel": "Ready to work"
	}`, string(raw))

	overtime := uint32(42)
	state.Status = StatusComplete
	state.OvertimeSecs = &overtime
	raw, err = json.Marshal(state)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"overtimeSecs":42`)
}
