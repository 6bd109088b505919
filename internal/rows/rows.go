// Package rows owns the ledger row shapes and decoding of their payloads.
//
// Rows arrive from the indexing service with attribute payloads still
// encoded. They stay as bytes until one of the Decode helpers is called
// with the matching schema row.
package rows

import (
	"bytes"
	"slices"

	"github.com/danmuck/rowcodec/internal/schema"
)

// NoTemplate is the template id of assets minted without a template.
const NoTemplate = "-1"

type AssetRow struct {
	AssetID                 string   `json:"asset_id"`
	CollectionName          string   `json:"collection_name"`
	SchemaName              string   `json:"schema_name"`
	TemplateID              string   `json:"template_id"`
	RAMPayer                string   `json:"ram_payer"`
	BackedTokens            []string `json:"backed_tokens"`
	ImmutableSerializedData []byte   `json:"immutable_serialized_data"`
	MutableSerializedData   []byte   `json:"mutable_serialized_data"`
}

func (r AssetRow) Clone() AssetRow {
	r.BackedTokens = slices.Clone(r.BackedTokens)
	r.ImmutableSerializedData = bytes.Clone(r.ImmutableSerializedData)
	r.MutableSerializedData = bytes.Clone(r.MutableSerializedData)
	return r
}

type TemplateRow struct {
	TemplateID              int64  `json:"template_id"`
	CollectionName          string `json:"collection_name"`
	SchemaName              string `json:"schema_name"`
	Transferable            bool   `json:"transferable"`
	Burnable                bool   `json:"burnable"`
	MaxSupply               int64  `json:"max_supply"`
	IssuedSupply            int64  `json:"issued_supply"`
	ImmutableSerializedData []byte `json:"immutable_serialized_data"`
}

func (r TemplateRow) Clone() TemplateRow {
	r.ImmutableSerializedData = bytes.Clone(r.ImmutableSerializedData)
	return r
}

type SchemaRow struct {
	SchemaName string        `json:"schema_name"`
	Format     schema.Format `json:"format"`
}

func (r SchemaRow) Clone() SchemaRow {
	r.Format = slices.Clone(r.Format)
	return r
}

type CollectionRow struct {
	CollectionName     string   `json:"collection_name"`
	Author             string   `json:"author"`
	AllowNotify        bool     `json:"allow_notify"`
	AuthorizedAccounts []string `json:"authorized_accounts"`
	NotifyAccounts     []string `json:"notify_accounts"`
	MarketFee          float64  `json:"market_fee"`
	SerializedData     []byte   `json:"serialized_data"`
}

func (r CollectionRow) Clone() CollectionRow {
	r.AuthorizedAccounts = slices.Clone(r.AuthorizedAccounts)
	r.NotifyAccounts = slices.Clone(r.NotifyAccounts)
	r.SerializedData = bytes.Clone(r.SerializedData)
	return r
}

type OfferRow struct {
	OfferID           string   `json:"offer_id"`
	Sender            string   `json:"sender"`
	Recipient         string   `json:"recipient"`
	SenderAssetIDs    []string `json:"sender_asset_ids"`
	RecipientAssetIDs []string `json:"recipient_asset_ids"`
	Memo              string   `json:"memo"`
}

func (r OfferRow) Clone() OfferRow {
	r.SenderAssetIDs = slices.Clone(r.SenderAssetIDs)
	r.RecipientAssetIDs = slices.Clone(r.RecipientAssetIDs)
	return r
}

// ConfigRow is the contract-wide configuration, including the schema used
// for collection payloads.
type ConfigRow struct {
	AssetCounter     string        `json:"asset_counter"`
	OfferCounter     string        `json:"offer_counter"`
	CollectionFormat schema.Format `json:"collection_format"`
}
