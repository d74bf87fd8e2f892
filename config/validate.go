package config

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/teranos/gladegen/codegen"
	"github.com/teranos/gladegen/errors"
)

// MaxIndent bounds generate.indent
const MaxIndent = 16

// Validate checks that the configuration is valid.
// Every failure is a usage error: nothing has been touched yet.
func (c *Config) Validate() error {
	if _, err := codegen.LookupCharset(c.Generate.Charset); err != nil {
		return errors.Wrap(err, "generate.charset")
	}

	if c.Generate.Indent <= 0 || c.Generate.Indent > MaxIndent {
		return errors.MarkUsage(errors.Newf("generate.indent must be between 1 and %d, got %d", MaxIndent, c.Generate.Indent))
	}

	if strings.TrimSpace(c.Generate.Interpreter) == "" {
		return errors.MarkUsage(errors.New("generate.interpreter cannot be empty"))
	}
	if strings.ContainsAny(c.Generate.Interpreter, "\r\n") {
		return errors.MarkUsage(errors.New("generate.interpreter must be a single line"))
	}
	if strings.ContainsAny(c.Generate.Copyright, "\r\n") {
		return errors.MarkUsage(errors.WithHint(
			errors.New("generate.copyright must be a single line"),
			"put longer notices in a file and pass it with --license"))
	}

	if err := validateCommand("merge.diff_command", c.Merge.DiffCommand); err != nil {
		return err
	}
	if err := validateCommand("merge.patch_command", c.Merge.PatchCommand); err != nil {
		return err
	}

	// 0 = regenerate on the first event, negative = invalid
	if c.Watch.DebounceMS < 0 {
		return errors.MarkUsage(errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS))
	}

	return nil
}

func validateCommand(key, command string) error {
	words, err := shellquote.Split(command)
	if err != nil {
		return errors.MarkUsage(errors.Wrapf(err, "%s", key))
	}
	if len(words) == 0 {
		return errors.MarkUsage(errors.Newf("%s cannot be empty", key))
	}
	return nil
}
