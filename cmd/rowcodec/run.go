package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/danmuck/rowcodec/internal/attr"
	"github.com/danmuck/rowcodec/internal/cache"
	"github.com/danmuck/rowcodec/internal/config"
	"github.com/danmuck/rowcodec/internal/logging"
	"github.com/danmuck/rowcodec/internal/observability"
	"github.com/danmuck/rowcodec/internal/render"
	"github.com/danmuck/rowcodec/internal/rows"
	"github.com/danmuck/rowcodec/internal/schema"
	"github.com/danmuck/rowcodec/internal/schemafile"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
)

const usage = `usage: rowcodec [global flags] <command> [flags]

commands:
  encode   encode a JSON object with a schema, print hex
  decode   decode hex or a binary file with a schema
  asset    decode asset rows through the row cache, print merged attributes
  types    list registered attribute types

global flags:
`

var errUsage = errors.New("rowcodec: invalid usage")

type globals struct {
	configPath string
	strict     bool
	logLevel   string
	metrics    string
}

type env struct {
	cfg    config.Config
	strict bool
	stdin  io.Reader
	stdout io.Writer
}

func run(args []string, stdin io.Reader, stdout io.Writer) (err error) {
	var g globals
	fs := flag.NewFlagSet("rowcodec", flag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.StringVar(&g.configPath, "config", "", "path to config.toml")
	fs.BoolVar(&g.strict, "strict", false, "reject out-of-order tags when decoding")
	fs.StringVar(&g.logLevel, "log-level", "", "override log level (trace|debug|info|warn|error|off)")
	fs.StringVar(&g.metrics, "metrics", "", "write prometheus metrics to this file on exit")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if g.configPath != "" {
		loaded, err := config.Load(g.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := initLogger(cfg, g.logLevel); err != nil {
		return err
	}
	if g.metrics != "" {
		defer func() {
			if werr := writeMetrics(g.metrics); werr != nil && err == nil {
				err = werr
			}
		}()
	}

	e := env{cfg: cfg, strict: g.strict || cfg.StrictTagOrder, stdin: stdin, stdout: stdout}
	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errUsage
	}
	switch rest[0] {
	case "encode":
		return e.encode(rest[1:])
	case "decode":
		return e.decode(rest[1:])
	case "asset":
		return e.asset(rest[1:])
	case "types":
		for _, name := range attr.Types() {
			fmt.Fprintln(stdout, name)
		}
		return nil
	default:
		fs.Usage()
		return fmt.Errorf("%w: unknown command %q", errUsage, rest[0])
	}
}

func initLogger(cfg config.Config, override string) error {
	opts := logging.DefaultOptions(logging.ProfileRuntime)
	opts.Level = cfg.LogLevel
	opts.Timestamp = cfg.LogTimestamp
	logging.ApplyEnvOverrides(&opts)
	if override != "" {
		lvl, ok := logging.ParseLevel(override)
		if !ok {
			return fmt.Errorf("%w: unknown log level %q", errUsage, override)
		}
		opts.Level = lvl
	}
	observability.InitLogger("rowcodec", opts)
	return nil
}

// loadSchema resolves ref as a configured schema name first, then as a path.
func (e env) loadSchema(ref string) (*schema.Schema, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, fmt.Errorf("%w: --schema is required", errUsage)
	}
	var opts []schema.Option
	if e.strict {
		opts = append(opts, schema.WithStrictTagOrder())
	}
	if path, ok := e.cfg.Schemas[ref]; ok {
		return schemafile.LoadSchema(path, append(opts, schema.WithName(ref))...)
	}
	return schemafile.LoadSchema(ref, opts...)
}

func (e env) encode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	schemaRef := fs.StringP("schema", "s", "", "schema name from config or schema file path")
	input := fs.StringP("input", "i", "-", "JSON object file, - for stdin")
	inline := fs.String("json", "", "inline JSON object (overrides --input)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := e.loadSchema(*schemaRef)
	if err != nil {
		return err
	}

	var data []byte
	if *inline != "" {
		data = []byte(*inline)
	} else if data, err = e.readInput(*input); err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return fmt.Errorf("encode: parse input: %w", err)
	}

	out, err := s.SerializeNative(obj)
	if err != nil {
		return err
	}
	log.Info().Str("schema", s.Name()).Int("bytes", len(out)).Msg("encoded record")
	_, err = fmt.Fprintln(e.stdout, hex.EncodeToString(out))
	return err
}

func (e env) decode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	schemaRef := fs.StringP("schema", "s", "", "schema name from config or schema file path")
	hexArg := fs.String("hex", "", "hex-encoded record")
	input := fs.StringP("input", "i", "", "binary record file, - for stdin")
	output := fs.StringP("output", "o", "json", "output format: "+strings.Join(render.Formats, "|"))
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := e.loadSchema(*schemaRef)
	if err != nil {
		return err
	}

	var data []byte
	switch {
	case *hexArg != "":
		data, err = hex.DecodeString(strings.TrimSpace(*hexArg))
		if err != nil {
			return fmt.Errorf("decode: --hex: %w", err)
		}
	case *input != "":
		if data, err = e.readInput(*input); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: decode needs --hex or --input", errUsage)
	}

	rec, err := s.Decode(data)
	if err != nil {
		return err
	}
	log.Info().Str("schema", s.Name()).Int("attributes", len(rec)).Msg("decoded record")
	return render.Write(e.stdout, *output, rec.Native())
}

func (e env) readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(e.stdin)
	}
	return os.ReadFile(path)
}

func writeMetrics(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if err := observability.WriteMetrics(f); err != nil {
		f.Close()
		return fmt.Errorf("metrics: %w", err)
	}
	return f.Close()
}

// rowSet is the input of the asset command. Payload fields are base64, as
// encoding/json writes []byte.
type rowSet struct {
	Schemas   []rows.SchemaRow   `json:"schemas"`
	Templates []rows.TemplateRow `json:"templates"`
	Assets    []rows.AssetRow    `json:"assets"`
}

func (e env) asset(args []string) error {
	fs := flag.NewFlagSet("asset", flag.ContinueOnError)
	input := fs.StringP("input", "i", "-", "JSON row set file, - for stdin")
	id := fs.String("id", "", "only decode this asset id")
	output := fs.StringP("output", "o", "json", "output format: "+strings.Join(render.Formats, "|"))
	if err := fs.Parse(args); err != nil {
		return err
	}
	data, err := e.readInput(*input)
	if err != nil {
		return err
	}
	var set rowSet
	if err := json.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("asset: parse input: %w", err)
	}

	rc := cache.NewRowCache(cache.WithTTL(e.cfg.CacheTTL), cache.WithFreshWindow(e.cfg.CacheFreshWindow))
	for _, sr := range set.Schemas {
		rc.Schema(sr.SchemaName).Write(sr)
	}
	for _, tr := range set.Templates {
		rc.Template(strconv.FormatInt(tr.TemplateID, 10)).Write(tr)
	}
	ids := make([]string, 0, len(set.Assets))
	for _, ar := range set.Assets {
		rc.Asset(ar.AssetID).Write(ar)
		ids = append(ids, ar.AssetID)
	}
	if *id != "" {
		ids = []string{*id}
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	out := make(map[string]any, len(ids))
	for _, assetID := range ids {
		merged, err := decodeCachedAsset(rc, assetID)
		if err != nil {
			return err
		}
		out[assetID] = merged.Native()
	}
	log.Info().Int("assets", len(out)).Msg("decoded assets")
	return render.Write(e.stdout, *output, out)
}

func decodeCachedAsset(rc *cache.RowCache, assetID string) (schema.Record, error) {
	ar, ok := rc.Asset(assetID).Read()
	if !ok {
		return nil, fmt.Errorf("asset %s: not loaded", assetID)
	}
	sr, ok := rc.Schema(ar.SchemaName).Read()
	if !ok {
		return nil, fmt.Errorf("asset %s: schema %q not loaded", assetID, ar.SchemaName)
	}
	var tpl *rows.TemplateRow
	if ar.TemplateID != "" && ar.TemplateID != rows.NoTemplate {
		tr, ok := rc.Template(ar.TemplateID).Read()
		if !ok {
			return nil, fmt.Errorf("asset %s: template %s not loaded", assetID, ar.TemplateID)
		}
		tpl = &tr
	}
	data, err := rows.DecodeAssetData(ar, sr, tpl)
	if err != nil {
		return nil, err
	}
	return data.Merged(), nil
}
