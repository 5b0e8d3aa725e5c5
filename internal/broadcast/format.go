package broadcast

import (
	"fmt"
	"regexp"
	"strings"
)

var hashtagPattern = regexp.MustCompile(`#\w+`)

// HashtagManager builds and extracts the hashtag set attached to announcements.
type HashtagManager struct {
	standard []string
}

// NewHashtagManager returns a manager with the project's standard hashtags.
func NewHashtagManager() *HashtagManager {
	return &HashtagManager{standard: []string{"#Cliptions", "#PredictionMarket", "#CLIP"}}
}

// NewHashtagManagerWithDefaults returns a manager using a custom default set.
func NewHashtagManagerWithDefaults(defaults []string) *HashtagManager {
	return &HashtagManager{standard: defaults}
}

// Generate returns the standard hashtags plus a block-specific tag and any
// custom hashtags supplied by the caller.
func (h *HashtagManager) Generate(blockNum string, custom []string) []string {
	tags := make([]string, 0, len(h.standard)+1+len(custom))
	tags = append(tags, h.standard...)
	tags = append(tags, "#"+blockNum)
	tags = append(tags, custom...)
	return tags
}

// stateHashtag lowercases a blockengine state name and prefixes '#', giving
// the machine-readable hashtag miners and the dashboard filter on, e.g.
// "CommitmentsOpen" -> "#commitmentsopen".
func stateHashtag(stateName string) string {
	if stateName == "" {
		return ""
	}
	return "#" + strings.ToLower(stateName)
}

// Format joins hashtags with spaces, ready to append to a post body.
func (h *HashtagManager) Format(hashtags []string) string {
	return strings.Join(hashtags, " ")
}

// Extract returns every #word found in text.
func (h *HashtagManager) Extract(text string) []string {
	return hashtagPattern.FindAllString(text, -1)
}

// AnnouncementData carries the fields needed to render any block-lifecycle
// announcement.
type AnnouncementData struct {
	BlockNum      string
	StateName     string
	TargetTime    string
	Hashtags      []string
	Message       string
	PrizePool     *float64
	LivestreamURL string
}

// AnnouncementFormatter renders AnnouncementData into channel-ready text.
type AnnouncementFormatter struct {
	hashtags *HashtagManager
}

// NewAnnouncementFormatter returns a formatter using the standard hashtag set.
func NewAnnouncementFormatter() *AnnouncementFormatter {
	return &AnnouncementFormatter{hashtags: NewHashtagManager()}
}

// CreateStandardAnnouncement renders the default "block is live" post used
// to open commitments.
func (f *AnnouncementFormatter) CreateStandardAnnouncement(data AnnouncementData) string {
	tags := f.hashtags.Generate(data.BlockNum, f.stateTags(data))
	tagString := f.hashtags.Format(tags)

	prizeInfo := ""
	if data.PrizePool != nil {
		prizeInfo = fmt.Sprintf(" Prize pool: %.2f.", *data.PrizePool)
	}

	return fmt.Sprintf(
		"Block %s is now live! Target will be revealed at %s.%s Submit your predictions below! %s",
		data.BlockNum, data.TargetTime, prizeInfo, tagString,
	)
}

// CreateCustomAnnouncement renders data.Message with the block's hashtags
// appended, used for every lifecycle transition after commitments open.
func (f *AnnouncementFormatter) CreateCustomAnnouncement(data AnnouncementData) string {
	tags := f.hashtags.Generate(data.BlockNum, append(f.stateTags(data), data.Hashtags...))
	tagString := f.hashtags.Format(tags)
	return strings.TrimSpace(fmt.Sprintf("%s %s", data.Message, tagString))
}

// stateTags prepends the machine-readable phase hashtag derived from
// data.StateName ahead of any caller-supplied custom hashtags.
func (f *AnnouncementFormatter) stateTags(data AnnouncementData) []string {
	if tag := stateHashtag(data.StateName); tag != "" {
		return []string{tag}
	}
	return nil
}

// FormatAnnouncement picks the custom template when a message is supplied,
// otherwise falls back to the standard announcement.
func (f *AnnouncementFormatter) FormatAnnouncement(data AnnouncementData, useCustom bool) string {
	if useCustom && data.Message != "" {
		return f.CreateCustomAnnouncement(data)
	}
	return f.CreateStandardAnnouncement(data)
}
