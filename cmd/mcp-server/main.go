package main

import (
	"context"
	"log"
	"os"

	"github.com/eshaffer321/secondhand-go/pkg/market"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	baseURL := os.Getenv("MARKET_BASE_URL")
	if baseURL == "" {
		baseURL = market.DefaultBaseURL
	}

	// Listings are public; a token is only needed for the seller's own view
	client, err := market.NewClient(&market.ClientOptions{
		BaseURL: baseURL,
		Token:   os.Getenv("MARKET_TOKEN"),
	})
	if err != nil {
		log.Fatalf("failed to initialize marketplace client: %v", err)
	}
	defer client.Close()

	impl := &mcp.Implementation{
		Name:    "secondhand-market",
		Version: "1.0.0",
	}

	server := mcp.NewServer(impl, nil)

	registerTools(server, client)

	// Run server over stdio transport
	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func registerTools(server *mcp.Server, client *market.Client) {
	tools := &marketTools{client: client}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_products",
		Description: "List marketplace listings, optionally filtered by a case-insensitive title search and a maximum price. Returns id, title, price, location, seller and category for each listing.",
	}, tools.ListProducts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_product",
		Description: "Get a single listing by its numeric id, including its description and image URL.",
	}, tools.GetProduct)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_seller_products",
		Description: "List the listings registered by a given seller username, split into those still for sale and those already sold.",
	}, tools.ListSellerProducts)
}
