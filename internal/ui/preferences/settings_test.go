package preferences

import (
	"errors"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomotray/internal/core/model"
)

func TestFormSettings(t *testing.T) {
	tests := []struct {
		name    string
		form    Form
		want    model.TimerSettings
		wantErr bool
	}{
		{
			name: "valid",
			form: Form{WorkMinutes: " 50 ", BreakMinutes: "10", AutoBreak: true, DarkMode: true},
			want: model.TimerSettings{WorkMinutes: 50, BreakMinutes: 10, AutoBreak: true, DarkMode: true},
		},
		{name: "bounds", form: Form{WorkMinutes: "60", BreakMinutes: "1"}, want: model.TimerSettings{WorkMinutes: 60, BreakMinutes: 1}},
		{name: "not a number", form: Form{WorkMinutes: "abc", BreakMinutes: "5"}, wantErr: true},
		{name: "empty break", form: Form{WorkMinutes: "25", BreakMinutes: ""}, wantErr: true},
		{name: "work too long", form: Form{WorkMinutes: "61", BreakMinutes: "5"}, wantErr: true},
		{name: "break zero", form: Form{WorkMinutes: "25", BreakMinutes: "0"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.form.Settings()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, model.ErrInvalidSettings))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormRoundTrip(t *testing.T) {
	settings := model.TimerSettings{WorkMinutes: 30, BreakMinutes: 7, AutoStart: true}
	got, err := FormFromSettings(settings).Settings()
	require.NoError(t, err)
	assert.Equal(t, settings, got)
}

func TestWindowSave(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	var saved []model.TimerSettings
	prefs := New(app, model.DefaultTimerSettings(), func(settings model.TimerSettings) error {
		saved = append(saved, settings)
		return nil
	})

	assert.Equal(t, "25", prefs.workEntry.Text)
	assert.True(t, prefs.autoBreak.Checked)

	prefs.workEntry.SetText("45")
	prefs.darkMode.SetChecked(true)
	prefs.handleSave()

	require.Len(t, saved, 1)
	assert.Equal(t, 45, saved[0].WorkMinutes)
	assert.True(t, saved[0].DarkMode)
	assert.Equal(t, saved[0], prefs.settings)
}

func TestWindowRejectsInvalidInput(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	calls := 0
	prefs := New(app, model.DefaultTimerSettings(), func(model.TimerSettings) error {
		calls++
		return nil
	})

	prefs.restEntry.SetText("45")
	prefs.handleSave()

	assert.Zero(t, calls)
	assert.Equal(t, model.DefaultTimerSettings(), prefs.settings)
}
