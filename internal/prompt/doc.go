// Package prompt implements the interactive question-and-answer surface.
// Terminal talks to the operator; Script replays canned answers for tests
// and unattended runs.
package prompt
