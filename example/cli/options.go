package cli

type Options struct {
	URL         string   `short:"u" long:"url" description:"flow service base URL" required:"true"`
	Application string   `short:"a" long:"app" description:"application identifier"`
	TokenPath   string   `short:"t" long:"tokens" description:"token store file path"`
	Deny        []string `short:"d" long:"deny" description:"authenticator id to hide (repeatable)"`
	Debug       bool     `long:"debug" description:"enable debug logging"`
}
