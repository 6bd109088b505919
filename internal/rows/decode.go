package rows

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/danmuck/rowcodec/internal/schema"
	"github.com/rs/zerolog/log"
)

var (
	ErrSchemaMismatch   = errors.New("rows: schema does not match row")
	ErrTemplateMismatch = errors.New("rows: template does not match asset")
)

// AssetData is the decoded attribute payloads of one asset.
type AssetData struct {
	Immutable         schema.Record
	Mutable           schema.Record
	TemplateImmutable schema.Record
}

// Merged layers the payloads: template immutable, then asset immutable,
// then asset mutable.
func (d AssetData) Merged() schema.Record {
	return d.TemplateImmutable.Merge(d.Immutable, d.Mutable)
}

// DecodeCollectionData decodes a collection payload with the contract's
// collection format.
func DecodeCollectionData(row CollectionRow, cfg ConfigRow) (schema.Record, error) {
	s, err := schema.New(cfg.CollectionFormat, schema.WithName("collection"))
	if err != nil {
		return nil, err
	}
	rec, err := s.Decode(row.SerializedData)
	if err != nil {
		return nil, fmt.Errorf("collection %s: %w", row.CollectionName, err)
	}
	log.Debug().Str("collection", row.CollectionName).Int("attributes", len(rec)).Msg("rows.DecodeCollectionData ok")
	return rec, nil
}

// DecodeTemplateData decodes a template's immutable payload.
func DecodeTemplateData(row TemplateRow, sr SchemaRow) (schema.Record, error) {
	if row.SchemaName != sr.SchemaName {
		return nil, fmt.Errorf("%w: template %d uses %q, got %q",
			ErrSchemaMismatch, row.TemplateID, row.SchemaName, sr.SchemaName)
	}
	s, err := schema.New(sr.Format, schema.WithName(sr.SchemaName))
	if err != nil {
		return nil, err
	}
	rec, err := s.Decode(row.ImmutableSerializedData)
	if err != nil {
		return nil, fmt.Errorf("template %d: %w", row.TemplateID, err)
	}
	log.Debug().Int64("template", row.TemplateID).Str("schema", sr.SchemaName).Int("attributes", len(rec)).Msg("rows.DecodeTemplateData ok")
	return rec, nil
}

// DecodeAssetData decodes an asset's payloads. tpl may be nil for assets
// without a template; otherwise it must be the asset's template.
func DecodeAssetData(asset AssetRow, sr SchemaRow, tpl *TemplateRow) (AssetData, error) {
	if asset.SchemaName != sr.SchemaName {
		return AssetData{}, fmt.Errorf("%w: asset %s uses %q, got %q",
			ErrSchemaMismatch, asset.AssetID, asset.SchemaName, sr.SchemaName)
	}
	s, err := schema.New(sr.Format, schema.WithName(sr.SchemaName))
	if err != nil {
		return AssetData{}, err
	}

	data := AssetData{TemplateImmutable: schema.Record{}}
	if tpl != nil {
		if asset.TemplateID == NoTemplate || asset.TemplateID != strconv.FormatInt(tpl.TemplateID, 10) {
			return AssetData{}, fmt.Errorf("%w: asset %s template %s, got %d",
				ErrTemplateMismatch, asset.AssetID, asset.TemplateID, tpl.TemplateID)
		}
		if data.TemplateImmutable, err = s.Decode(tpl.ImmutableSerializedData); err != nil {
			return AssetData{}, fmt.Errorf("asset %s template %d: %w", asset.AssetID, tpl.TemplateID, err)
		}
	}
	if data.Immutable, err = s.Decode(asset.ImmutableSerializedData); err != nil {
		return AssetData{}, fmt.Errorf("asset %s immutable data: %w", asset.AssetID, err)
	}
	if data.Mutable, err = s.Decode(asset.MutableSerializedData); err != nil {
		return AssetData{}, fmt.Errorf("asset %s mutable data: %w", asset.AssetID, err)
	}
	log.Debug().Str("asset", asset.AssetID).Str("schema", sr.SchemaName).Bool("template", tpl != nil).Msg("rows.DecodeAssetData ok")
	return data, nil
}
