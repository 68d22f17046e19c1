package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/pkg/config"
	"github.com/frontandrew/stationtime/internal/pkg/logger"
	"github.com/frontandrew/stationtime/internal/pkg/redis"
	"github.com/frontandrew/stationtime/internal/repository/cached"
	"github.com/frontandrew/stationtime/internal/repository/memory"
)

// Проверка кэша станций и карт на живом Redis
// Настройки берутся из тех же переменных окружения, что и у API (REDIS_*)
func main() {
	fmt.Println("=========================================")
	fmt.Println("Station/card cache smoke check")
	fmt.Println("=========================================")
	fmt.Println()

	cfg, err := config.Load()
	if err != nil {
		fail("load config", err)
	}

	client, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		fail("connect to Redis", err)
	}
	defer client.Close()

	fmt.Printf("OK  connected to %s:%s\n", cfg.Redis.Host, cfg.Redis.Port)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := memory.NewDB()
	store := cached.NewStore(db.Store(), client, logger.NewNoop())

	// Test 1: станция кэшируется после первого чтения
	station := &domain.WeatherStation{Name: fmt.Sprintf("smoke-%d", time.Now().UnixNano()), IsActive: true}
	if err := store.Stations().Create(ctx, station); err != nil {
		fail("create station", err)
	}
	if _, err := store.Stations().GetByID(ctx, station.ID); err != nil {
		fail("get station", err)
	}
	stationKey := "station:" + station.ID.String()
	if _, err := client.Get(ctx, stationKey); err != nil {
		fail("station key after read", err)
	}
	fmt.Printf("OK  %s cached\n", stationKey)

	// Test 2: выключение станции сбрасывает ключ
	if err := store.Stations().SetActive(ctx, station.ID, false); err != nil {
		fail("deactivate station", err)
	}
	if _, err := client.Get(ctx, stationKey); err != redis.ErrCacheMiss {
		fail("station key after write", fmt.Errorf("expected cache miss, got %v", err))
	}
	fmt.Printf("OK  %s invalidated\n", stationKey)

	// Test 3: карта кэшируется по номеру
	employee := &domain.Employee{Name: "Smoke", Surname: "Check", IsActive: true}
	if err := store.Employees().Create(ctx, employee); err != nil {
		fail("create employee", err)
	}
	card := &domain.EmployeeCard{CardNumber: fmt.Sprintf("SMOKE-%d", time.Now().UnixNano()), EmployeeID: employee.ID, IsActive: true}
	if err := store.Cards().Create(ctx, card); err != nil {
		fail("create card", err)
	}
	if _, err := store.Cards().GetByCardNumber(ctx, card.CardNumber); err != nil {
		fail("get card", err)
	}
	cardKey := "card:number:" + card.CardNumber
	if _, err := client.Get(ctx, cardKey); err != nil {
		fail("card key after read", err)
	}
	fmt.Printf("OK  %s cached\n", cardKey)

	// Cleanup
	if err := client.Del(ctx, stationKey, cardKey); err != nil {
		fail("cleanup", err)
	}

	fmt.Println()
	fmt.Println("All cache checks passed")
}

func fail(step string, err error) {
	fmt.Printf("FAIL %s: %v\n", step, err)
	os.Exit(1)
}
