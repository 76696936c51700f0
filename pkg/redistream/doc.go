/*
Package redistream drains a channel into a Redis stream.

A Sink is the Redis-backed counterpart of pump: producers flush batches into
a channel through chanwriter, and the sink appends each batch to a Redis
stream as a single XADD entry. Stream entries carry the payload alongside a
producer instance ID and a per-producer sequence number, so downstream
consumers can attribute entries and detect gaps.

# Basic Usage

	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	q := queue.New[[]byte](64)

	sink, err := redistream.New(q, redistream.Config{
		Redis:  rdb,
		Stream: "chat:outbound",
		MaxLen: 100000,
	})
	if err != nil {
		log.Fatal(err)
	}
	if err := sink.Start(context.Background()); err != nil {
		log.Fatal(err)
	}

	// ... producers write and flush through chanwriter ...

	q.Close()          // no more batches; let the sink drain
	_ = sink.Wait()

# Entry Layout

Every appended entry has three fields:

	data     — the batch payload, verbatim
	producer — the sink's instance ID
	seq      — per-producer sequence number, starting at 1

Consumers read with XREAD or consumer groups as usual:

	res, err := rdb.XRead(ctx, &redis.XReadArgs{
		Streams: []string{"chat:outbound", "0"},
		Count:   10,
	}).Result()

# Failure Model

A failed append drops that batch and keeps the sink running: OnError fires,
AppendErrors and DroppedBatches grow, and the loop moves to the next batch.
Redis outages therefore cost data, not the pipeline. Size MaxLen and alert
on DroppedBatches if the stream is the system of record.

Each append is bounded by RedisTimeout (default 500ms), so a slow Redis
cannot wedge the loop indefinitely.

# Trimming

With MaxLen set, every append trims the stream approximately (XADD MAXLEN ~),
which is cheap and keeps memory bounded. Set MaxLen to zero to keep every
entry and manage trimming elsewhere.

# Shutdown

Closing the channel lets the sink drain every remaining batch before Wait
returns nil. Canceling the context or calling Stop exits promptly and
leaves undrained batches in the channel.
*/
package redistream
