package payloadschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/url"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed batch.schema.json
var batchSchemaJSON string

const PayloadVersion = "v1"

// Batch is a validated headline batch.
type Batch struct {
	PayloadVersion string      `json:"payload_version"`
	Threshold      *float64    `json:"threshold,omitempty"`
	Keyed          bool        `json:"keyed,omitempty"`
	Items          []BatchItem `json:"items"`
}

type BatchItem struct {
	Title      string  `json:"title"`
	Key        string  `json:"key,omitempty"`
	Source     *string `json:"source,omitempty"`
	SourceType *string `json:"source_type,omitempty"`
	URL        *string `json:"url,omitempty"`
	Text       *string `json:"text,omitempty"`
}

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// ValidateBatchPayload checks payload against the embedded batch schema and
// the semantic rules the schema cannot express. Blank titles are accepted:
// the clustering engine is defined for every string.
func ValidateBatchPayload(payload json.RawMessage) (*Batch, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode payload JSON: %w", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("normalize payload JSON: %w", err)
	}

	var batch Batch
	if err := json.Unmarshal(normalized, &batch); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	if batch.Items == nil {
		batch.Items = []BatchItem{}
	}

	if err := validateSemantics(&batch); err != nil {
		return nil, err
	}

	return &batch, nil
}

// Titles returns the item titles in input order.
func (b *Batch) Titles() []string {
	if b == nil {
		return nil
	}
	titles := make([]string, len(b.Items))
	for i, item := range b.Items {
		titles[i] = item.Title
	}
	return titles
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		if err := compiler.AddResource("batch.schema.json", strings.NewReader(batchSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile("batch.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}

		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing content")
	}

	return value, nil
}

func validateSemantics(batch *Batch) error {
	if batch == nil {
		return fmt.Errorf("payload is nil")
	}
	if strings.TrimSpace(batch.PayloadVersion) != PayloadVersion {
		return fmt.Errorf("payload_version must be %s", PayloadVersion)
	}
	if batch.Threshold != nil && (math.IsNaN(*batch.Threshold) || math.IsInf(*batch.Threshold, 0)) {
		return fmt.Errorf("threshold must be a finite number")
	}

	for i, item := range batch.Items {
		if item.URL != nil {
			if err := validateURI(fmt.Sprintf("items[%d].url", i), *item.URL); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateURI(fieldName, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fmt.Errorf("%s must not be empty", fieldName)
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return fmt.Errorf("%s is not a valid URI: %w", fieldName, err)
	}
	return nil
}
