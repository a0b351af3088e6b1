// Package assettype maps Roblox numeric asset type codes to category names.
// The table is the official asset type enum as returned by the catalog and
// economy APIs. Lookups are total: unmapped codes resolve to Unknown.
package assettype

import "strconv"

// Unknown is the fallback category for codes missing from the table.
const Unknown = "Unknown"

// names maps assetTypeId values to their official names.
//
// Historical note: gaps in the sequence (6, 7, 14, ...) are codes Roblox
// retired or never shipped; they intentionally have no entry and resolve
// to Unknown.
var names = map[int]string{
	1:  "Image",
	2:  "TShirt",
	3:  "Audio",
	4:  "Mesh",
	5:  "Lua",
	8:  "Hat",
	9:  "Place",
	10: "Model",
	11: "Shirt",
	12: "Pants",
	13: "Decal",
	17: "Head",
	18: "Face",
	19: "Gear",
	21: "Badge",
	24: "Animation",
	27: "Torso",
	28: "RightArm",
	29: "LeftArm",
	30: "LeftLeg",
	31: "RightLeg",
	32: "Package",
	34: "GamePass",
	38: "Plugin",
	40: "MeshPart",
	41: "HatAccessory",
	42: "HairAccessory",
	43: "FaceAccessory",
	44: "NeckAccessory",
	45: "ShoulderAccessory",
	46: "FrontAccessory",
	47: "BackAccessory",
	48: "WaistAccessory",
	49: "ClimbAnimation",
	50: "DeathAnimation",
	51: "FallAnimation",
	52: "IdleAnimation",
	53: "JumpAnimation",
	54: "RunAnimation",
	55: "SwimAnimation",
	56: "WalkAnimation",
	57: "PoseAnimation",
	61: "EmoteAnimation",
	62: "Video",
	64: "TShirtAccessory",
	65: "ShirtAccessory",
	66: "PantsAccessory",
	67: "JacketAccessory",
	68: "SweaterAccessory",
	69: "ShortsAccessory",
	70: "LeftShoeAccessory",
	71: "RightShoeAccessory",
	72: "DressSkirtAccessory",
	73: "FontFamily",
	76: "EyebrowAccessory",
	77: "EyelashAccessory",
	78: "MoodAnimation",
	79: "DynamicHead",
}

// Name returns the category name for an asset type code.
// Unmapped codes return Unknown; Name never fails.
func Name(assetTypeID int) string {
	if n, ok := names[assetTypeID]; ok {
		return n
	}
	return Unknown
}

// Known reports whether the code has an explicit entry in the table.
func Known(assetTypeID int) bool {
	_, ok := names[assetTypeID]
	return ok
}

// Label returns the category name, or "Type <code>" for unmapped codes.
// Used where a display string more specific than Unknown is wanted.
func Label(assetTypeID int) string {
	if n, ok := names[assetTypeID]; ok {
		return n
	}
	return "Type " + strconv.Itoa(assetTypeID)
}
