package service

import (
	"github.com/yatube/yatube/pkg/telemetry"
)

var (
	followsCreated  = telemetry.Counter("yatube.follows.created", "Follow edges created")
	followsRemoved  = telemetry.Counter("yatube.follows.removed", "Follow edges removed")
	postsCreated    = telemetry.Counter("yatube.posts.created", "Posts created")
	commentsCreated = telemetry.Counter("yatube.comments.created", "Comments created")
	indexCacheHits  = telemetry.Counter("yatube.index_cache.hits", "Index page cache hits")
	indexCacheMiss  = telemetry.Counter("yatube.index_cache.misses", "Index page cache misses")
)
