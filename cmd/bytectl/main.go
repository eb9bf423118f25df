// Command bytectl is the ByteMe account, admin, and maintenance CLI.
//
// Usage:
//
//	bytectl                          Show help
//	bytectl login --token T          Store a session token
//	bytectl login --google ID_TOKEN  Exchange a Google ID token for a session
//	bytectl logout                   Forget the session token
//	bytectl feed [flags]             Print a page of a feed
//	bytectl follow <channel>         Follow a channel
//	bytectl unfollow <channel>       Unfollow a channel
//	bytectl following                List followed channels
//	bytectl categories [ids...]      Show or set category preferences
//	bytectl admin <resource> <op>    Manage influencers, posts, prompts
//	bytectl cache clear|stats        Inspect or clear stored feed pages
package main

import (
	"fmt"
	"os"
)

const usage = `bytectl - ByteMe account, admin & maintenance CLI

Usage:
  bytectl <command> [flags]

Commands:
  login       Store a session token (--token) or sign in with Google (--google)
  logout      Forget the stored session token and per-user cached pages
  feed        Print one page of a feed (general, followed, saved, search)
  follow      Follow a channel by id
  unfollow    Unfollow a channel by id
  following   List followed channel ids
  categories  Show, set, or list available categories
  admin       Admin resources: influencers, posts, prompts (list|create|update|delete)
  cache       Stored feed pages: clear [variant], stats

Environment:
  BYTEME_API_URL      Backend base URL
  BYTEME_TOKEN        Session token (overrides the stored one)
  BYTEME_ADMIN_TOKEN  Admin token (overrides the stored one)
  BYTEME_DATA_DIR     Data directory (default: ~/.byteme)

Run 'bytectl <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "login":
		runLogin()
	case "logout":
		runLogout()
	case "feed":
		runFeed()
	case "follow":
		runFollow(true)
	case "unfollow":
		runFollow(false)
	case "following":
		runFollowing()
	case "categories":
		runCategories()
	case "admin":
		runAdmin()
	case "cache":
		runCache()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "bytectl: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
