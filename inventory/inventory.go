package inventory

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/adhocore/jsonc"
	"github.com/friendsofgo/errors"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "inventory.yml"

var ErrEmptyInventory = errors.New("inventory is empty")

// Inventory maps the top-level keys of the file to their raw content.
// Only the section of the selected provider (e.g. "azure") is decoded, other keys are ignored.
type Inventory map[string]yaml.Node

type Subscription struct {
	SubscriptionID string `yaml:"subscription_id" json:"subscription_id"`
}

func (s Subscription) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.SubscriptionID, validation.Required),
	)
}

// Subscriptions decodes the entries of the provider in file order.
// A provider without a section, or with an empty one, has no subscriptions.
func (i Inventory) Subscriptions(provider string) ([]Subscription, error) {
	section, ok := i[provider]
	if !ok {
		return []Subscription{}, nil
	}

	var subscriptions []Subscription
	if err := section.Decode(&subscriptions); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s section of inventory", provider)
	}
	if subscriptions == nil {
		return []Subscription{}, nil
	}
	return subscriptions, nil
}

// Load reads and parses the inventory file.
// Files with a .json5 extension may contain comments and trailing commas.
func Load(path string) (Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	if strings.EqualFold(filepath.Ext(path), ".json5") {
		data = jsonc.New().Strip(data)
	}

	return Parse(data)
}

func Parse(data []byte) (Inventory, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyInventory
	}

	var inv Inventory
	if err := yaml.Unmarshal(data, &inv); err != nil {
		return nil, errors.Wrap(err, "failed to parse inventory")
	}

	if len(inv) == 0 {
		return nil, ErrEmptyInventory
	}

	return inv, nil
}
