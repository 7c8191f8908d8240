// Interactive shell for browsing the gallery gateway from a terminal.
// Keeps a cookie jar so bookmarks stick to one gateway session.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/peterh/liner"
)

type listingResponse struct {
	State   string `json:"state"`
	Message string `json:"message"`
	Page    int    `json:"page"`
	HasPrev bool   `json:"hasPrev"`
	HasNext bool   `json:"hasNext"`
	Items   []struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Artist string `json:"artist"`
	} `json:"items"`
}

type bookmarksResponse struct {
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
	Items      []struct {
		ID          string `json:"id"`
		SourceID    string `json:"sourceId"`
		Title       string `json:"title"`
		DateDisplay string `json:"dateDisplay"`
	} `json:"items"`
}

type shell struct {
	base   string
	client *http.Client

	source string
	sort   string
	onView bool
	page   int
	artist string
}

func main() {
	base := flag.String("gateway", "http://localhost:8080", "gateway base URL")
	flag.Parse()

	jar, _ := cookiejar.New(nil)
	sh := &shell{
		base:   strings.TrimRight(*base, "/"),
		client: &http.Client{Jar: jar, Timeout: 30 * time.Second},
		source: "cleveland",
		sort:   "asc",
		page:   1,
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Println("musegate shell, type 'help' for commands")
	for {
		input, err := line.Prompt(fmt.Sprintf("%s:%d> ", sh.source, sh.page))
		if err != nil {
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		if input == "exit" || input == "quit" {
			break
		}
		sh.run(input)
	}
}

func (sh *shell) run(input string) {
	fields := strings.Fields(input)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		fmt.Println(`commands:
  source cleveland|chicago   switch museum
  sort asc|desc              title order
  onview                     toggle the on-view filter
  page <n> | next | prev     move pages
  search <artist terms>      artist search (empty clears)
  list                       fetch the current listing
  show <id>                  artifact detail
  save <id>                  toggle a bookmark for the current source
  saved [page]               resolved bookmarks
  exit`)
	case "source":
		if len(args) == 1 && (args[0] == "cleveland" || args[0] == "chicago") {
			sh.source, sh.page = args[0], 1
		} else {
			fmt.Println("usage: source cleveland|chicago")
		}
	case "sort":
		if len(args) == 1 && (args[0] == "asc" || args[0] == "desc") {
			sh.sort = args[0]
			sh.list()
		} else {
			fmt.Println("usage: sort asc|desc")
		}
	case "onview":
		sh.onView = !sh.onView
		sh.list()
	case "page":
		if len(args) == 1 {
			fmt.Sscanf(args[0], "%d", &sh.page)
			if sh.page < 1 {
				sh.page = 1
			}
			sh.list()
		}
	case "next":
		sh.page++
		sh.list()
	case "prev":
		if sh.page > 1 {
			sh.page--
		}
		sh.list()
	case "search":
		sh.artist = strings.Join(args, " ")
		if sh.artist != "" {
			sh.page = 1
		}
		sh.list()
	case "list":
		sh.list()
	case "show":
		if len(args) == 1 {
			sh.show(args[0])
		}
	case "save":
		if len(args) == 1 {
			sh.save(args[0])
		}
	case "saved":
		page := 1
		if len(args) == 1 {
			fmt.Sscanf(args[0], "%d", &page)
		}
		sh.saved(page)
	default:
		fmt.Printf("unknown command %q\n", cmd)
	}
}

func (sh *shell) list() {
	v := url.Values{}
	v.Set("title", sh.sort)
	v.Set("currently_on_view", fmt.Sprint(sh.onView))
	v.Set("page", fmt.Sprint(sh.page))
	if sh.artist != "" {
		v.Set("artist", sh.artist)
	}

	var out listingResponse
	if err := sh.getJSON(fmt.Sprintf("/api/%s/artifacts?%s", sh.source, v.Encode()), &out); err != nil {
		fmt.Println("error:", err)
		return
	}
	if out.State == "failed" {
		fmt.Println("fetch failed:", out.Message)
		return
	}
	if len(out.Items) == 0 {
		fmt.Println("No artifacts found")
		return
	}
	for _, it := range out.Items {
		artist := it.Artist
		if artist == "" {
			artist = "Unknown"
		}
		fmt.Printf("[%s] %s / %s\n", it.ID, it.Title, artist)
	}
	fmt.Printf("page %d  prev=%v next=%v\n", out.Page, out.HasPrev, out.HasNext)
}

func (sh *shell) show(id string) {
	var out map[string]any
	if err := sh.getJSON(fmt.Sprintf("/api/%s/artifacts/%s", sh.source, url.PathEscape(id)), &out); err != nil {
		fmt.Println("error:", err)
		return
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

func (sh *shell) save(id string) {
	u := fmt.Sprintf("%s/api/bookmarks/%s/%s/toggle", sh.base, sh.source, url.PathEscape(id))
	res, err := sh.client.Post(u, "application/json", nil)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	fmt.Println(strings.TrimSpace(string(body)))
}

func (sh *shell) saved(page int) {
	var out bookmarksResponse
	if err := sh.getJSON(fmt.Sprintf("/api/bookmarks?page=%d", page), &out); err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, it := range out.Items {
		fmt.Printf("[%s/%s] %s (%s)\n", it.SourceID, it.ID, it.Title, it.DateDisplay)
	}
	fmt.Printf("%d saved, %d pages\n", out.Total, out.TotalPages)
}

func (sh *shell) getJSON(path string, v any) error {
	res, err := sh.client.Get(sh.base + path)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return json.NewDecoder(res.Body).Decode(v)
}
