package seed

import (
	"bytes"
	_ "embed"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/clientbook/internal/client"
)

//go:embed schema.cue
var schemaCUE string

// Error describes an invalid fixture file.
type Error struct {
	File    string
	Pos     token.Pos // invalid for YAML input checked after decoding
	Path    string    // CUE path of the offending value, if known
	Message string
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Pos.IsValid() {
		fmt.Fprintf(&b, "%s:%d:%d: ", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column())
	} else if e.File != "" {
		fmt.Fprintf(&b, "%s: ", e.File)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, "%s: ", e.Path)
	}
	b.WriteString(e.Message)
	return b.String()
}

// record is one fixture entry. The tags serve the YAML decoder and the CUE
// encoder alike.
type record struct {
	FirstName string   `json:"first_name,omitempty" yaml:"first_name"`
	LastName  string   `json:"last_name,omitempty" yaml:"last_name"`
	Email     string   `json:"email,omitempty" yaml:"email"`
	Phones    []string `json:"phones" yaml:"phones"`
}

type file struct {
	Clients []record `json:"clients" yaml:"clients"`
}

// LoadFile reads the fixture file at path. The format is chosen by
// extension: .cue, .yaml or .yml. The returned clients have no id.
func LoadFile(path string) ([]client.Client, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling seed schema: %w", err)
	}

	var v cue.Value
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cue":
		v = ctx.CompileBytes(data, cue.Filename(path))
	case ".yaml", ".yml":
		f, err := decodeYAML(data)
		if err != nil {
			return nil, &Error{File: path, Message: err.Error()}
		}
		v = ctx.Encode(f)
	default:
		return nil, fmt.Errorf("unsupported seed format %q: use .cue, .yaml or .yml", ext)
	}
	if err := v.Err(); err != nil {
		return nil, convertCUEError(path, err)
	}
	if !v.LookupPath(cue.ParsePath("clients")).Exists() {
		return nil, &Error{File: path, Message: "no clients list"}
	}

	v = schema.Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, convertCUEError(path, err)
	}

	var records []record
	if err := v.LookupPath(cue.ParsePath("clients")).Decode(&records); err != nil {
		return nil, convertCUEError(path, err)
	}

	clients := make([]client.Client, len(records))
	for i, r := range records {
		clients[i] = *client.New(r.FirstName, r.LastName, r.Email, r.Phones...)
	}
	return clients, nil
}

func decodeYAML(data []byte) (file, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !stderrors.Is(err, io.EOF) {
		return file{}, err
	}
	if f.Clients == nil {
		return file{}, fmt.Errorf("no clients list")
	}
	// A missing phones key decodes to nil, which CUE would see as null.
	for i := range f.Clients {
		if f.Clients[i].Phones == nil {
			f.Clients[i].Phones = []string{}
		}
	}
	return f, nil
}

// convertCUEError reports the first CUE error with its path, and its
// position when one lies in the fixture file rather than the schema.
func convertCUEError(path string, err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &Error{File: path, Message: err.Error()}
	}
	first := errs[0]
	format, args := first.Msg()
	e := &Error{
		File:    path,
		Path:    strings.Join(first.Path(), "."),
		Message: fmt.Sprintf(format, args...),
	}
	for _, pos := range errors.Positions(first) {
		if pos.Filename() == path {
			e.Pos = pos
			break
		}
	}
	return e
}

// Default returns the three sample clients used by the demo.
func Default() []client.Client {
	return []client.Client{
		*client.New("Иван", "Ивановский", "ivnanushka@mail.ru", "+7 211 122-17-12", "+7 122 211-92-11"),
		*client.New("Петр", "Петров", "petya_petrov@yandex.ru", "+7 333 222-11-00"),
		*client.New("Сидр", "Сидорин", "mister-sidr@ne-pey.ego"),
	}
}
