package model

// ZippopotamResponse is the payload returned by api.zippopotam.us for a US ZIP
// lookup. Latitude and longitude arrive as strings.
type ZippopotamResponse struct {
	PostCode string `json:"post code"`
	Country  string `json:"country"`
	Places   []struct {
		PlaceName string `json:"place name"`
		State     string `json:"state"`
		StateAbbr string `json:"state abbreviation"`
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"places"`
}
