package mock

import (
	"fmt"
	"sync"

	"kbconsole/sdk/console"
)

// store holds the mock backend state in memory. Everything is seeded
// with plausible data so the console has something to show out of the
// box.
type store struct {
	mu        sync.RWMutex
	seq       int
	kbs       map[string]*console.KnowledgeBase
	documents map[string]*console.Document
	plugins   map[string]*console.Plugin
	providers map[string]*console.Provider
	feeds     map[string]*console.Feed
	roles     []console.Role
	grants    map[string]*console.PermissionGrant
}

func newStore() *store {
	s := &store{
		kbs:       make(map[string]*console.KnowledgeBase),
		documents: make(map[string]*console.Document),
		plugins:   make(map[string]*console.Plugin),
		providers: make(map[string]*console.Provider),
		feeds:     make(map[string]*console.Feed),
		grants:    make(map[string]*console.PermissionGrant),
	}
	s.seed()
	return s
}

func (s *store) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s_%d", prefix, s.seq)
}

func (s *store) seed() {
	now := console.Now()

	kb := &console.KnowledgeBase{
		ID: s.nextID("kb"), Name: "Engineering Docs",
		Description: "Internal engineering documentation",
		Created:     now, Updated: now,
	}
	s.kbs[kb.ID] = kb

	docs := []struct{ title, content string }{
		{"Deploy checklist", "# Deploy checklist\n\n1. Run the smoke tests\n2. Tag the release\n3. Watch the dashboards for 15 minutes"},
		{"On-call handbook", "# On-call handbook\n\nPage severity levels and escalation paths."},
		{"Service catalog", "# Service catalog\n\nWho owns what, and where it runs."},
	}
	for _, d := range docs {
		doc := &console.Document{
			ID: s.nextID("doc"), KnowledgeBaseID: kb.ID,
			Title: d.title, Content: d.content,
			Created: now, Updated: now,
		}
		s.documents[doc.ID] = doc
		kb.Documents++
	}

	for _, p := range []*console.Provider{
		{ID: "anthropic", Name: "Anthropic", Kind: "anthropic", Model: "claude-sonnet-4-5", Enabled: true, Updated: now},
		{ID: "local", Name: "Local", Kind: "local", Model: "llama3", Endpoint: "http://localhost:11434", Enabled: false, Updated: now},
	} {
		s.providers[p.ID] = p
	}

	plugin := &console.Plugin{
		ID: s.nextID("plg"), Name: "web-search", Version: "1.0.0",
		Description: "Searches the public web",
		Endpoint:    "http://localhost:9100", Enabled: true, Registered: now,
	}
	s.plugins[plugin.ID] = plugin

	feed := &console.Feed{
		ID: s.nextID("feed"), Name: "docs sync",
		KnowledgeBaseID: kb.ID, Source: "https://docs.example.com/feed.xml",
		Schedule: "0 6 * * *", Enabled: true, Created: now,
	}
	s.feeds[feed.ID] = feed

	s.roles = []console.Role{
		{ID: "admin", Name: "Administrator", Description: "Full access"},
		{ID: "editor", Name: "Editor", Description: "Can edit documents and feeds"},
		{ID: "viewer", Name: "Viewer", Description: "Read only"},
	}
	g := &console.PermissionGrant{
		ID: s.nextID("grant"), RoleID: "editor", Resource: "kb", Action: "write",
	}
	s.grants[g.ID] = g
}

var experiences = []console.Experience{
	{
		ID:          "weekly-digest",
		Title:       "Weekly Digest",
		Description: "Summarize what changed across the knowledge base this week",
		Steps: []console.ExperienceStep{
			{Key: "fetch", Type: "plugin", Title: "Fetch recent documents"},
			{Key: "rank", Type: "plugin", Title: "Rank by relevance"},
			{Key: "synthesize", Type: "llm", Title: "Synthesize digest"},
		},
	},
	{
		ID:          "stale-docs",
		Title:       "Stale Document Audit",
		Description: "Find documents that have not been touched in 90 days",
		Steps: []console.ExperienceStep{
			{Key: "scan", Type: "plugin", Title: "Scan knowledge bases"},
			{Key: "classify", Type: "llm", Title: "Classify staleness"},
			{Key: "report", Type: "plugin", Title: "Build report"},
		},
	},
	{
		ID:          "flaky-run",
		Title:       "Flaky Pipeline Demo",
		Description: "Demonstrates step failures and skips without failing the run",
		Steps: []console.ExperienceStep{
			{Key: "fetch", Type: "plugin", Title: "Fetch sources"},
			{Key: "enrich", Type: "plugin", Title: "Enrich metadata"},
			{Key: "publish", Type: "plugin", Title: "Publish results"},
		},
	},
}

func findExperience(id string) *console.Experience {
	for i := range experiences {
		if experiences[i].ID == id {
			return &experiences[i]
		}
	}
	return nil
}
