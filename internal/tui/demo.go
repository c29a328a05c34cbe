package tui

import (
	"github.com/aurora-ide/aurora-notify/internal/markup"
	"github.com/aurora-ide/aurora-notify/internal/model"
)

// demoMessages are cycled through by the spawn keys.
var demoMessages = map[model.Severity][]string{
	model.SeveritySuccess: {
		"Build finished without warnings.",
		"Workspace saved.",
		"All 214 tests passed.",
	},
	model.SeverityError: {
		"Compilation failed: main.go:42: undefined: handler",
		"Language server crashed and will restart.",
		"Could not write file: permission denied.",
	},
	model.SeverityWarning: {
		"Unsaved changes in 3 files.",
		"Extension host is responding slowly.",
		"Deprecated API used in editor/config.go.",
	},
	model.SeverityInfo: {
		"Indexing workspace symbols.",
		"A new version is available.",
		"Remote session connected.",
	},
}

const demoRich = "<b>Deploy</b> of <code>aurora-web</code> finished in <i>4.2s</i>. " +
	"<u>3</u> services restarted, <s>0 failed</s>."

// spawn shows the next demo message for severity.
func (m Model) spawn(severity model.Severity) {
	messages := demoMessages[severity]
	n := m.demo[severity]
	m.demo[severity] = n + 1
	m.stack.Show(messages[n%len(messages)], severity, 0)
	m.play(severity)
}

// play runs the sound off the update loop: the first play of a file
// decodes it.
func (m Model) play(severity model.Severity) {
	if m.sounds != nil {
		go m.sounds.Play(severity)
	}
}

// spawnRich shows a markup demo, or its plain text when markup is disabled.
func (m Model) spawnRich() {
	if m.cfg.Behavior.AllowMarkup {
		m.stack.ShowMarkup(demoRich, model.SeveritySuccess, 0)
		m.play(model.SeveritySuccess)
		return
	}
	m.stack.Show(markup.Plain(demoRich), model.SeveritySuccess, 0)
	m.play(model.SeveritySuccess)
}
