package domain

// LevelInfo describes how a shelter level is presented. List and map
// collaborators consume the same table instead of switching on the enum.
type LevelInfo struct {
	Label string `json:"label"`
	Badge string `json:"badge"` // short marker text for map pins
}

// levelTable is keyed by ShelterLevel.
var levelTable = map[ShelterLevel]LevelInfo{
	ShelterLevel1: {Label: "Lv 1 絕對防禦 (完全室內)", Badge: "Lv1"},
	ShelterLevel2: {Label: "Lv 2 室內區域 (需短暫戶外)", Badge: "Lv2"},
	ShelterLevel3: {Label: "Lv 3 有遮蔽 (半戶外)", Badge: "Lv3"},
}

// parkingLabels maps parking types to their display labels.
var parkingLabels = map[ParkingType]string{
	ParkingUnderground:   "地下停車場 (直達)",
	ParkingNearbyOutdoor: "附近室外停車",
}

// LevelPresentation returns the display info for a shelter level. Unknown
// levels get a zero LevelInfo.
func LevelPresentation(level ShelterLevel) LevelInfo {
	return levelTable[level]
}

// ParkingLabel returns the display label for a parking type.
func ParkingLabel(p ParkingType) string {
	return parkingLabels[p]
}
