package testutil

import (
	"fmt"

	models "github.com/chrisdamba/daytrip/internal"
)

func strPtr(s string) *string { return &s }

// SeedAttractions returns a small catalog: twenty numbered attractions
// plus landmarks that keyword searches can hit.
func SeedAttractions() []models.AttractionDetail {
	stations := []string{"淡水", "北投", "士林", "中山", "西門"}
	categories := []string{"養生溫泉", "自然風景", "藝文館所", "歷史建築"}

	items := []models.AttractionDetail{
		detail(1, "台北 101 觀景台", "遊樂園區", strPtr("台北101/世貿")),
		detail(2, "101 購物中心", "購物商圈", strPtr("台北101/世貿")),
		detail(3, "陽明山國家公園", "自然風景", nil),
	}
	for i := 4; i <= 23; i++ {
		mrt := stations[i%len(stations)]
		items = append(items, detail(i, fmt.Sprintf("景點 %02d", i), categories[i%len(categories)], strPtr(mrt)))
	}
	return items
}

func detail(id int, name, category string, mrt *string) models.AttractionDetail {
	return models.AttractionDetail{
		AttractionSummary: models.AttractionSummary{
			ID:       id,
			Name:     name,
			Category: category,
			MRT:      mrt,
			Images: []string{
				fmt.Sprintf("https://img.example.com/%d/1.jpg", id),
				fmt.Sprintf("https://img.example.com/%d/2.jpg", id),
				fmt.Sprintf("https://img.example.com/%d/3.jpg", id),
			},
		},
		Description: name + "是台北的熱門景點。",
		Address:     fmt.Sprintf("臺北市某區某路 %d 號", id),
		Transport:   "搭乘捷運後步行約 10 分鐘。",
		Lat:         25.03,
		Lng:         121.56,
	}
}
