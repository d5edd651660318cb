// Command seed loads a demo catalog into MySQL and clears any cached
// listings so the API serves the fresh data immediately.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	mysqlDSN  = flag.String("mysql", "root:root@tcp(localhost:3306)/gocart?parseTime=true", "MySQL DSN")
	redisAddr = flag.String("redis", "localhost:6379", "Redis address")
)

type seedProduct struct {
	title     string
	price     float64
	salePrice float64
	onSale    bool
	stock     int
	category  string
	brand     string
}

func main() {
	flag.Parse()
	ctx := context.Background()

	db, err := sql.Open("mysql", *mysqlDSN)
	if err != nil {
		log.Fatalf("open mysql: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("ping mysql: %v", err)
	}

	categories := map[string]string{}
	for _, name := range []string{"Audio", "Wearables", "Accessories"} {
		id := uuid.NewString()
		if _, err := db.ExecContext(ctx,
			"INSERT INTO categories (id, name, created_at) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE id = id",
			id, name, time.Now()); err != nil {
			log.Fatalf("seed category %s: %v", name, err)
		}
		db.QueryRowContext(ctx, "SELECT id FROM categories WHERE name = ?", name).Scan(&id)
		categories[name] = id
	}

	brands := map[string]string{}
	for _, name := range []string{"Acme", "Northwind", "Globex"} {
		id := uuid.NewString()
		if _, err := db.ExecContext(ctx,
			"INSERT INTO brands (id, name, created_at) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE id = id",
			id, name, time.Now()); err != nil {
			log.Fatalf("seed brand %s: %v", name, err)
		}
		db.QueryRowContext(ctx, "SELECT id FROM brands WHERE name = ?", name).Scan(&id)
		brands[name] = id
	}

	products := []seedProduct{
		{"Wireless Headphones", 129.99, 99.99, true, 40, "Audio", "Acme"},
		{"Bluetooth Speaker", 59.90, 0, false, 25, "Audio", "Northwind"},
		{"Fitness Tracker", 89.00, 69.00, true, 60, "Wearables", "Globex"},
		{"Smart Watch", 249.00, 0, false, 15, "Wearables", "Acme"},
		{"USB-C Cable 2m", 12.50, 0, false, 200, "Accessories", "Northwind"},
		{"Laptop Sleeve", 29.00, 19.00, true, 80, "Accessories", "Globex"},
	}
	now := time.Now()
	for _, p := range products {
		_, err := db.ExecContext(ctx, `
			INSERT INTO products
				(id, title, description, price, sale_price, on_sale, stock,
				 category_id, brand_id, image_url, average_rating, rating_count,
				 created_at, updated_at)
			VALUES (?, ?, '', ?, ?, ?, ?, ?, ?, '', 0, 0, ?, ?)`,
			uuid.NewString(), p.title, p.price, p.salePrice, p.onSale, p.stock,
			categories[p.category], brands[p.brand], now, now,
		)
		if err != nil {
			log.Fatalf("seed product %s: %v", p.title, err)
		}
	}
	log.Printf("seeded %d products, %d categories, %d brands", len(products), len(categories), len(brands))

	rdb := redis.NewClient(&redis.Options{Addr: *redisAddr})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis unavailable, skipping cache flush: %v", err)
		return
	}

	var deleted int
	iter := rdb.Scan(ctx, 0, "catalog:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := rdb.Del(ctx, iter.Val()).Err(); err == nil {
			deleted++
		}
	}
	log.Printf("cleared %d cached listings", deleted)
}
