package tui

import "chanmgr/internal/api"

// ChannelsLoadedMsg is sent when the channel list is loaded
type ChannelsLoadedMsg struct {
	Channels []api.ChannelInfo
	Active   string
	Err      error
}

// ChannelSavedMsg is sent when the form has been saved
type ChannelSavedMsg struct {
	Name string
	Err  error
}

// ChannelDeletedMsg is sent when a channel is deleted
type ChannelDeletedMsg struct {
	Name string
	Err  error
}
