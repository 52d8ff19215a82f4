package catalog

import "encoding/json"

type Entity struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type SKUCategoryType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PriceType struct {
	ID    string  `json:"id"`
	Name  string  `json:"name,omitempty"`
	Price float64 `json:"price,omitempty"`
}

type SalesChannel struct {
	ID         string      `json:"id"`
	Name       string      `json:"name,omitempty"`
	PriceTypes []PriceType `json:"price_types"`
}

type MaterialTemplate struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties"`
}

type StoreInfo struct {
	ID                    string `json:"id"`
	Name                  string `json:"name,omitempty"`
	DefaultBusinessUnitID string `json:"default_business_unit_id"`
}

// Division is the top of the inventory hierarchy returned by
// get_all_sub_categories.
type Division struct {
	ID         string             `json:"id"`
	Categories []CategoryWithSubs `json:"sku_category"`
}

type CategoryWithSubs struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	StoreID       string       `json:"store_id"`
	SubCategories []OwnedEntry `json:"sku_sub_category"`
}

type OwnedEntry struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	StoreID      string `json:"store_id"`
	DisplayPicID string `json:"display_pic_id,omitempty"`
}

type GroupWithSKUs struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	StoreID string       `json:"store_id"`
	SKUs    []OwnedEntry `json:"sku"`
}

// SKUPrice sets one price type on one sales channel.
type SKUPrice struct {
	SalesChannelID string
	PriceTypeID    string
	Price          float64
}

// NewSKU is one row of a bulk upload. Extra carries any other SKU
// attribute the platform accepts (model_no, brand_id, material_id, ...).
type NewSKU struct {
	Name         string
	SKUGroupID   string
	DisplayPicID string
	Model3DID    string
	Prices       []SKUPrice
	Extra        map[string]any
}

func (n NewSKU) MarshalJSON() ([]byte, error) {
	object := make(map[string]any, len(n.Extra)+6)
	for key, value := range n.Extra {
		object[key] = value
	}

	object["name"] = n.Name
	object["sku_group_id"] = n.SKUGroupID
	if n.DisplayPicID != "" {
		object["display_pic_id"] = n.DisplayPicID
	}
	if n.Model3DID != "" {
		object["model_3d_id"] = n.Model3DID
	}
	if len(n.Prices) > 0 {
		object["sales_channels"] = groupPrices(n.Prices)
	}

	return json.Marshal(object)
}

type salesChannelPrices struct {
	ID         string      `json:"id"`
	PriceTypes []PriceType `json:"price_types"`
}

// groupPrices nests prices per sales channel, keeping first-seen order.
func groupPrices(prices []SKUPrice) []salesChannelPrices {
	var channels []salesChannelPrices
	index := map[string]int{}

	for _, price := range prices {
		position, ok := index[price.SalesChannelID]
		if !ok {
			position = len(channels)
			index[price.SalesChannelID] = position
			channels = append(channels, salesChannelPrices{ID: price.SalesChannelID})
		}

		channels[position].PriceTypes = append(channels[position].PriceTypes, PriceType{
			ID:    price.PriceTypeID,
			Price: price.Price,
		})
	}

	return channels
}

type Render struct {
	ID             string         `json:"id"`
	Status         string         `json:"status"`
	JobType        string         `json:"job_type"`
	Quality        string         `json:"quality"`
	DesignBranchID string         `json:"design_branch_id"`
	OutputFilePath string         `json:"output_file_path"`
	Params         map[string]any `json:"params"`
}
