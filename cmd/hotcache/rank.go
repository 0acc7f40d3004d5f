package main

import (
	"context"
	"fmt"
	"time"

	"github.com/magic-lib/go-plat-hotcache/cache"
	loadcache "github.com/magic-lib/go-plat-hotcache/cache/load-cache"
	"github.com/magic-lib/go-plat-hotcache/hotrank"
	"github.com/spf13/cobra"
)

func newRankCmd(a *app) *cobra.Command {
	var (
		platform, tab, filter string
		times                 int
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Load a hot ranking through the cache with a demo fetcher",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := hotrank.ParsePlatform(platform)
			if err != nil {
				return err
			}
			registry := cache.NewRegistry[*hotrank.Ranking](a.metrics)
			rankings := registry.GetOrCreate("hot_rankings", cache.TTLCacheOptions{
				DefaultTTL: a.cfg.Cache.DefaultTTL,
				MaxSize:    a.cfg.Cache.MaxSize,
				Logger:     a.logger,
			})
			snapshot, err := cache.NewBackend[string](a.cfg.Snapshot.Backend, a.cfg.Snapshot.Size, a.cfg.Snapshot.TTL)
			if err != nil {
				return err
			}
			fetches := 0
			svc, err := hotrank.NewService(rankings, hotrank.FetcherFunc(func(_ context.Context, q hotrank.Query) (*hotrank.Ranking, error) {
				fetches++
				return demoRanking(q), nil
			}), hotrank.Options{
				Loader: loadcache.Options{
					EmptyTTL:      a.cfg.Loader.EmptyTTL,
					RefreshFactor: a.cfg.Loader.RefreshFactor,
				},
				RefreshGuard: a.cfg.Refresh.Guard,
				Logger:       a.logger,
				Snapshot:     snapshot,
				SnapshotTTL:  a.cfg.Snapshot.TTL,
				StaleTTL:     a.cfg.Snapshot.StaleTTL,
			})
			if err != nil {
				return err
			}

			q := hotrank.Query{Platform: p, TabID: tab, FilterType: filter}
			out := cmd.OutOrStdout()
			for i := 0; i < times; i++ {
				r, err := svc.Ranking(cmd.Context(), q)
				if err != nil {
					return err
				}
				info := svc.Info(q)
				fmt.Fprintf(out, "#%d key=%s items=%d fetches=%d age=%s remaining=%s\n",
					i+1, q.CacheKey(), len(r.Items), fetches, info.Age.Round(time.Millisecond),
					info.Remaining().Round(time.Second))
			}
			fmt.Fprintf(out, "cached keys: %v\n", svc.CachedKeys())
			return nil
		},
	}
	cmd.Flags().StringVarP(&platform, "platform", "p", "douyin", "tiktok, douyin, kuaishou, youtube, x, wechat or pipixia")
	cmd.Flags().StringVar(&tab, "tab", "", "tab or category id")
	cmd.Flags().StringVar(&filter, "filter", "", "filter qualifier")
	cmd.Flags().IntVarP(&times, "times", "n", 3, "how many times to read the ranking")
	return cmd
}

func demoRanking(q hotrank.Query) *hotrank.Ranking {
	items := make([]hotrank.RankItem, 0, 10)
	for i := 1; i <= 10; i++ {
		items = append(items, hotrank.RankItem{
			Rank:     i,
			Title:    fmt.Sprintf("%s hot #%d", q.Platform, i),
			HotValue: int64(1000000 / i),
		})
	}
	return &hotrank.Ranking{
		Platform:   q.Platform,
		TabID:      q.TabID,
		FilterType: q.FilterType,
		Items:      items,
		FetchedAt:  time.Now(),
	}
}
