// Command searchcli is an interactive console over the search engine. It
// reads commands from stdin, one per line:
//
//	add <id> <status> [r1,r2,...] -- <text>
//	search <query>
//	match <id> <query>
//	remove <id>
//	dedup
//	stats
//	load <file>
//	quit
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/k0kubun/pp"

	"github.com/avelichko/searchcore/internal/engine"
	"github.com/avelichko/searchcore/internal/engine/document"
	"github.com/avelichko/searchcore/internal/ingest"
	"github.com/avelichko/searchcore/internal/requests"
	"github.com/avelichko/searchcore/pkg/config"
	"github.com/avelichko/searchcore/pkg/logger"
	"github.com/avelichko/searchcore/pkg/paginate"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	pageSize := flag.Int("page-size", 2, "results per output page")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup("error", "text")

	srv, err := engine.New(cfg.Engine)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create engine: %v\n", err)
		os.Exit(1)
	}
	queue := requests.NewQueue(srv, cfg.Requests.Window)

	c := &console{srv: srv, queue: queue, pageSize: *pageSize}
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "exit" {
			break
		}
		if line != "" {
			c.dispatch(line)
		}
		fmt.Print("> ")
	}
}

type console struct {
	srv      *engine.Server
	queue    *requests.Queue
	pageSize int
}

func (c *console) dispatch(line string) {
	cmd, rest, _ := strings.Cut(line, " ")
	var err error
	switch cmd {
	case "add":
		err = c.add(rest)
	case "search":
		err = c.search(rest)
	case "match":
		err = c.match(rest)
	case "remove":
		err = c.remove(rest)
	case "dedup":
		removed := c.srv.RemoveDuplicates()
		fmt.Printf("removed %d duplicate(s): %v\n", len(removed), removed)
	case "stats":
		fmt.Printf("documents: %d, no-result requests: %d\n",
			c.srv.DocumentCount(), c.queue.NoResultRequests())
	case "load":
		err = c.load(strings.TrimSpace(rest))
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

// add <id> <status> [r1,r2,...] -- <text>
func (c *console) add(rest string) error {
	head, text, found := strings.Cut(rest, " -- ")
	if !found {
		return fmt.Errorf(`expected "add <id> <status> [ratings] -- <text>"`)
	}
	fields := strings.Fields(head)
	if len(fields) < 2 {
		return fmt.Errorf("expected at least an id and a status")
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return fmt.Errorf("parsing id: %w", err)
	}
	status, err := document.ParseStatus(fields[1])
	if err != nil {
		return err
	}
	var ratings []int
	if len(fields) > 2 {
		for _, part := range strings.Split(fields[2], ",") {
			rating, err := strconv.Atoi(part)
			if err != nil {
				return fmt.Errorf("parsing rating %q: %w", part, err)
			}
			ratings = append(ratings, rating)
		}
	}
	if err := c.srv.AddDocument(id, text, status, ratings); err != nil {
		return err
	}
	fmt.Printf("added document %d\n", id)
	return nil
}

func (c *console) search(query string) error {
	results, err := c.queue.AddFindRequest(query)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("no results")
		return nil
	}
	paginator, err := paginate.New(results, c.pageSize)
	if err != nil {
		return err
	}
	pageNo := 0
	for page := range paginator.Pages() {
		fmt.Printf("--- page %d/%d ---\n", pageNo+1, paginator.PageCount())
		pp.Println(page)
		pageNo++
	}
	return nil
}

func (c *console) match(rest string) error {
	idText, query, found := strings.Cut(rest, " ")
	if !found {
		return fmt.Errorf(`expected "match <id> <query>"`)
	}
	id, err := strconv.Atoi(idText)
	if err != nil {
		return fmt.Errorf("parsing id: %w", err)
	}
	words, status, err := c.srv.MatchDocument(query, id)
	if err != nil {
		return err
	}
	fmt.Printf("status: %s, matched words:\n", status)
	pp.Println(words)
	return nil
}

func (c *console) remove(rest string) error {
	id, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return fmt.Errorf("parsing id: %w", err)
	}
	if err := c.srv.RemoveDocument(id); err != nil {
		return err
	}
	fmt.Printf("removed document %d\n", id)
	return nil
}

func (c *console) load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	added, err := ingest.ReadDocuments(f, c.srv)
	fmt.Printf("loaded %d document(s)\n", added)
	return err
}
