package generator

import (
	"math/rand/v2"
	"net/url"
	"path/filepath"
	"strings"

	"product_draft_studio/apperr"
)

// 表格导入目前为模拟实现：校验扩展名后返回固定数据。

// MockImport returns the fixed rows that stand in for a parsed spreadsheet.
func MockImport() []Product {
	return []Product{
		{
			Name:     "男士商务休闲皮鞋",
			Category: "鞋靴 > 皮鞋",
			Brand:    "商务大师",
			Material: "头层牛皮",
			Size:     "38-44",
			Color:    "黑色",
			Audience: "商务人士",
		},
		{
			Name:     "女士纯棉T恤",
			Category: "服装 > T恤",
			Brand:    "纯棉生活",
			Material: "100%棉",
			Size:     "S-XL",
			Color:    "白色",
			Audience: "女性",
		},
		{
			Name:     "儿童益智积木",
			Category: "玩具 > 积木",
			Brand:    "智慧童年",
			Material: "环保塑料",
			Size:     "200pcs",
			Color:    "多彩",
			Audience: "3-6岁儿童",
		},
	}
}

// ImportSpreadsheet accepts .xlsx/.xls file names and returns MockImport().
func ImportSpreadsheet(filename string) ([]Product, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return MockImport(), nil
	default:
		return nil, apperr.Validation("请选择有效的Excel文件（.xlsx或.xls格式）")
	}
}

var testProducts = []Product{
	{
		Name:     "男士夏季轻薄防晒衣",
		Category: "服装 > 外套",
		Brand:    "户外先锋",
		Material: "聚酯纤维",
		Size:     "M-XXL",
		Color:    "浅蓝色",
		Audience: "户外爱好者",
	},
	{
		Name:     "无线蓝牙耳机",
		Category: "数码 > 耳机",
		Brand:    "音动科技",
		Material: "ABS塑料",
		Size:     "通用",
		Color:    "白色",
		Audience: "年轻人",
	},
	{
		Name:     "家用空气净化器",
		Category: "家电 > 空气净化",
		Brand:    "清新家居",
		Material: "PP塑料",
		Size:     "350x450mm",
		Color:    "白色",
		Audience: "家庭用户",
	},
}

// SampleReferenceLink is the reference link filled in with test data.
const SampleReferenceLink = "https://example.com/reference-product"

// SampleReferenceImage is the placeholder reference material for test data.
const SampleReferenceImage = "https://via.placeholder.com/350x250?prompt=reference%20product%20image%20marketing%20screenshot&image_size=square"

// Sample is one randomly chosen test product plus its placeholder assets.
type Sample struct {
	Product        Product
	MainImage      string
	ReferenceImage string
	ReferenceLink  string
}

// RandomSample picks a test product. r may be nil.
func RandomSample(r *rand.Rand) Sample {
	var i int
	if r != nil {
		i = r.IntN(len(testProducts))
	} else {
		i = rand.IntN(len(testProducts))
	}
	p := testProducts[i]
	return Sample{
		Product:        p,
		MainImage:      "https://via.placeholder.com/350x250?prompt=" + url.QueryEscape(p.Name) + "%20product%20image%20white%20background&image_size=square",
		ReferenceImage: SampleReferenceImage,
		ReferenceLink:  SampleReferenceLink,
	}
}

// Batch wraps the sample as a single-product batch.
func (s Sample) Batch() Batch {
	return Batch{
		Products:        []Product{s.Product},
		MainImages:      []string{s.MainImage},
		ReferenceImages: []string{s.ReferenceImage},
		ReferenceLink:   s.ReferenceLink,
	}
}
