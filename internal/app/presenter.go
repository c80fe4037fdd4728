package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/mitchellh/colorstring"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/oshokin/fbauth/internal/client/identity"
	"github.com/oshokin/fbauth/internal/logger"
	"github.com/oshokin/fbauth/internal/service/auth"
	"github.com/oshokin/fbauth/internal/session"
	"github.com/oshokin/fbauth/internal/utils"
)

const (
	// spinnerType is the progressbar spinner used as the loading indicator.
	spinnerType = 14

	// spinnerInterval is how often the spinner advances.
	spinnerInterval = 100 * time.Millisecond
)

// Messages shown after a successful operation.
const (
	messageRegistered = "Registration successful."
	messageLoggedIn   = "Login successful."
	messageProfile    = "Profile fetched."
	messageLoggedOut  = "Logged out."
)

// ErrOperationFailed is returned by commands whose failure has already been rendered.
var ErrOperationFailed = errors.New("operation failed")

// palette holds the colorstring color names of a theme.
type palette struct {
	success string
	failure string
	accent  string
}

//nolint:gochecknoglobals // Read-only lookup table.
var palettes = map[session.Theme]palette{
	session.ThemeDark: {
		success: "light_green",
		failure: "light_red",
		accent:  "light_cyan",
	},
	session.ThemeLight: {
		success: "green",
		failure: "red",
		accent:  "blue",
	},
}

// Presenter renders operation outcomes to the terminal.
type Presenter struct {
	// out receives every rendered line.
	out io.Writer
	// palette is the color set of the current theme.
	palette palette
	// colorize applies palette colors, or strips them when color is off.
	colorize colorstring.Colorize
	// showSpinner enables the loading indicator.
	showSpinner bool
}

// NewPresenter creates a presenter writing to out in the given theme.
// The spinner is shown only when out is a terminal and debug logs are off.
func NewPresenter(out io.Writer, theme session.Theme, colorEnabled bool) *Presenter {
	themePalette, ok := palettes[theme]
	if !ok {
		themePalette = palettes[session.ThemeDark]
	}

	return &Presenter{
		out:     out,
		palette: themePalette,
		colorize: colorstring.Colorize{
			Colors:  colorstring.DefaultColors,
			Disable: !colorEnabled,
			Reset:   true,
		},
		showSpinner: isTerminal(out) && logger.Level() >= zap.InfoLevel,
	}
}

// Run shows the loading indicator while operation runs and removes it on every exit path.
func (p *Presenter) Run(description string, operation func() auth.Result) auth.Result {
	if !p.showSpinner {
		return operation()
	}

	stop := p.startSpinner(description)
	defer stop()

	return operation()
}

// Render prints the outcome of a workflow operation and reports whether it succeeded.
func (p *Presenter) Render(result auth.Result, successMessage string) bool {
	if !result.OK() {
		p.Failure(result.Err)

		return false
	}

	p.Success(successMessage)

	if len(result.Raw) > 0 {
		p.println(utils.PrettyJSON(result.Raw))
	}

	return true
}

// RenderProfile prints a fetched profile followed by its humanized timestamps.
func (p *Presenter) RenderProfile(result auth.Result) bool {
	if !p.Render(result, messageProfile) {
		return false
	}

	var user identity.User
	if err := json.Unmarshal(result.Raw, &user); err != nil {
		return true
	}

	if createdAt, ok := utils.ParseUnixMillis(user.CreatedAt); ok {
		p.Field("Created", humanize.Time(createdAt))
	}

	if lastLoginAt, ok := utils.ParseUnixMillis(user.LastLoginAt); ok {
		p.Field("Last login", humanize.Time(lastLoginAt))
	}

	return true
}

// Success prints a success line.
func (p *Presenter) Success(message string) {
	p.println(p.colorize.Color(fmt.Sprintf("[bold][%s]✅[reset] ", p.palette.success)) + message)
}

// Failure prints the user-facing message of err.
func (p *Presenter) Failure(err error) {
	p.println(p.colorize.Color(fmt.Sprintf("[bold][%s]❌[reset] ", p.palette.failure)) + userMessage(err))
}

// Field prints a labeled value.
func (p *Presenter) Field(label, value string) {
	p.println(p.colorize.Color(fmt.Sprintf("[%s]", p.palette.accent)) + label + ":" +
		p.colorize.Color("[reset]") + " " + value)
}

func (p *Presenter) println(line string) {
	_, _ = fmt.Fprintln(p.out, line)
}

// startSpinner starts an indeterminate progress bar and returns the function that clears it.
func (p *Presenter) startSpinner(description string) func() {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(spinnerType),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)

		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	return func() {
		close(done)
		<-stopped

		_ = bar.Finish()
	}
}

// userMessage returns the text shown for err: the service message for remote
// failures, otherwise the error text as a sentence.
func userMessage(err error) string {
	var remoteErr *identity.RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Message
	}

	if errors.Is(err, identity.ErrConfiguration) {
		return "Missing API key in configuration. Run 'fbauth init <api-key>' or set FIREBASE_API_KEY."
	}

	return sentence(err.Error())
}

// sentence capitalizes the first letter of message and ends it with a period.
func sentence(message string) string {
	if message == "" {
		return message
	}

	r, size := utf8.DecodeRuneInString(message)
	message = string(unicode.ToUpper(r)) + message[size:]

	if !strings.HasSuffix(message, ".") {
		message += "."
	}

	return message
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // File descriptors fit in int.
}
