// Copyright 2025 The Nanobox GCE Adapter Authors
//
//    Licensed under the Apache License, Version 2.0 (the "License"); you may
//    not use this file except in compliance with the License. You may obtain
//    a copy of the License at
//
//         http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
//    WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
//    License for the specific language governing permissions and limitations
//    under the License.

package catalog

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"

	adapterErrors "github.com/nanobox-io/gce-adapter/errors"
)

const (
	vmImageSKUPrefix  = "CP-COMPUTEENGINE-VMIMAGE"
	preemptibleSuffix = "PREEMPTIBLE"
	priceListTopLevel = "gcp_price_list"
)

// PriceTable maps a SKU to its hourly price per region.
type PriceTable map[string]map[string]float64

// LoadPriceTable reads a price list document from disk.
func LoadPriceTable(path string) (PriceTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading price list")
	}
	return ParsePriceTable(data)
}

// ParsePriceTable decodes a {"gcp_price_list": {...}} document. Entries
// that are not objects and per region values that are not numbers (core
// counts, ssd lists, ...) are skipped.
func ParsePriceTable(data []byte) (PriceTable, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "decoding price list")
	}

	raw, ok := doc[priceListTopLevel]
	if !ok {
		return nil, errors.Errorf("price list is missing the %s key", priceListTopLevel)
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, errors.Wrap(err, "decoding price list entries")
	}

	table := PriceTable{}
	for sku, entry := range entries {
		var regions map[string]json.RawMessage
		if err := json.Unmarshal(entry, &regions); err != nil {
			continue
		}
		prices := map[string]float64{}
		for region, value := range regions {
			var price float64
			if err := json.Unmarshal(value, &price); err != nil {
				continue
			}
			prices[region] = price
		}
		table[sku] = prices
	}
	return table, nil
}

// candidateSKUs returns the on demand VM SKUs matching machineType. The
// exact SKU comes first, the rest follow in lexical order.
func (p PriceTable) candidateSKUs(machineType string) []string {
	name := strings.ToUpper(machineType)
	exact := vmImageSKUPrefix + "-" + name

	var candidates []string
	for sku := range p {
		if !strings.HasPrefix(sku, vmImageSKUPrefix) || strings.HasSuffix(sku, preemptibleSuffix) {
			continue
		}
		if !strings.Contains(sku, name) || sku == exact {
			continue
		}
		candidates = append(candidates, sku)
	}
	sort.Strings(candidates)

	if _, ok := p[exact]; ok {
		candidates = append([]string{exact}, candidates...)
	}
	return candidates
}

// regionPrice returns the price of the longest region key contained in
// zone. Equally long keys are broken lexically.
func regionPrice(prices map[string]float64, zone string) (float64, bool) {
	var best string
	var found bool
	for region := range prices {
		if region == "" || !strings.Contains(zone, region) {
			continue
		}
		if !found || len(region) > len(best) || (len(region) == len(best) && region < best) {
			best = region
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return prices[best], true
}

// HourlyPrice returns the on demand hourly price of machineType in zone.
func (p PriceTable) HourlyPrice(zone, machineType string) (float64, error) {
	for _, sku := range p.candidateSKUs(machineType) {
		if price, ok := regionPrice(p[sku], zone); ok {
			return price, nil
		}
	}
	return 0, adapterErrors.NewPriceNotFoundError("no price found for machine type %s in zone %s", machineType, zone)
}
