package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// A scripted conversation driven against a RUNNING server, exercising the
// whole API surface from the outside: lookups, channel creation, posting,
// timelines and search. The server decides what readers see, so the rude
// line below comes back masked.
func main() {
	addr := flag.String("addr", "http://localhost:8080/graphql", "GraphQL endpoint of a running server")
	flag.Parse()

	t := &tester{endpoint: *addr, client: &http.Client{Timeout: 10 * time.Second}}

	// 1. Resolve the demo cast, this client cannot create users
	resp := t.execute("Resolving the demo cast", `
		query {
			alice: user(nickname: "alice") { nickname displayName status }
			bob: user(nickname: "bob") { nickname displayName status }
		}`, nil)

	var cast struct {
		Alice *userRow `json:"alice"`
		Bob   *userRow `json:"bob"`
	}
	mustDecode(resp, &cast)
	if cast.Alice == nil || cast.Bob == nil {
		log.Fatalf("Users alice and bob not found. Start the server with SEED_FILEPATH pointing at a fixture declaring them.")
	}
	renderUsers([]*userRow{cast.Alice, cast.Bob})

	// 2. Create a channel for the conversation
	t.execute("Creating #demo", `
		mutation {
			createChannel(name: "demo", description: "Scripted demo conversation", users: ["alice", "bob"]) {
				name
				members { nickname }
			}
		}`, nil)

	// 3. Play a short script, one line is rude on purpose
	script := []struct {
		from     string
		contents string
	}{
		{"alice", "Welcome to the demo channel!"},
		{"bob", "Glad to be here, what are we shipping today?"},
		{"alice", "Only a dimwit would ship on a Friday"},
	}
	for _, line := range script {
		t.execute("Posting as "+line.from, `
			mutation ($from: String!, $contents: String!) {
				postMessage(from: $from, channel: "demo", contents: $contents) { id }
			}`, map[string]any{"from": line.from, "contents": line.contents})
		time.Sleep(50 * time.Millisecond)
	}

	// 4. Read the timeline back
	resp = t.execute("Reading #demo", `
		query {
			channels(nickname: "alice") {
				name
				messages { createdAt contents sender { nickname } }
			}
		}`, nil)
	var listed struct {
		Channels []struct {
			Name     string       `json:"name"`
			Messages []messageRow `json:"messages"`
		} `json:"channels"`
	}
	mustDecode(resp, &listed)
	for _, channel := range listed.Channels {
		if channel.Name == "demo" {
			renderMessages("#"+channel.Name, channel.Messages)
		}
	}

	// 5. Search the whole message log
	resp = t.execute("Searching for \"shipping\"", `
		query {
			search(text: "shipping") { createdAt contents sender { nickname } }
		}`, nil)
	var found struct {
		Search []messageRow `json:"search"`
	}
	mustDecode(resp, &found)
	renderMessages("search results", found.Search)

	color.New(color.FgGreen).Println("\n✅ Demo complete")
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type userRow struct {
	Nickname    string  `json:"nickname"`
	DisplayName *string `json:"displayName"`
	Status      string  `json:"status"`
}

type messageRow struct {
	CreatedAt time.Time `json:"createdAt"`
	Contents  string    `json:"contents"`
	Sender    *userRow  `json:"sender"`
}

type tester struct {
	endpoint string
	client   *http.Client
}

// execute posts one GraphQL document and prints server-side errors in red
// without aborting, so a partially seeded server still shows something.
func (t *tester) execute(name, query string, variables map[string]any) graphQLResponse {
	color.New(color.BgBlack, color.FgGreen).Println(fmt.Sprintf("  ====== %s ======", name))

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		log.Fatalf("Encoding request: %v", err)
	}

	resp, err := t.client.Post(t.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("Unable to reach %s: %v", t.endpoint, err)
	}
	defer resp.Body.Close()

	var decoded graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		log.Fatalf("Decoding response: %v", err)
	}
	for _, e := range decoded.Errors {
		color.Red.Println("Server error: " + e.Message)
	}
	return decoded
}

func mustDecode(resp graphQLResponse, out any) {
	if len(resp.Errors) > 0 {
		log.Fatalf("GraphQL request failed: %s", resp.Errors[0].Message)
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		log.Fatalf("Decoding data payload: %v", err)
	}
}

func renderUsers(users []*userRow) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Nickname", "Display Name", "Status"})
	configure(table)
	for _, u := range users {
		displayName := ""
		if u.DisplayName != nil {
			displayName = *u.DisplayName
		}
		table.Append([]string{u.Nickname, displayName, u.Status})
	}
	table.Render()
}

func renderMessages(title string, messages []messageRow) {
	fmt.Printf("\n--- [%s] ---\n", title)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Time", "Sender", "Contents"})
	configure(table)
	for _, m := range messages {
		sender := "-"
		if m.Sender != nil {
			sender = m.Sender.Nickname
		}
		table.Append([]string{m.CreatedAt.Format("15:04:05"), sender, m.Contents})
	}
	table.Render()
}

func configure(table *tablewriter.Table) {
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
}
