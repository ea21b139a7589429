package common

const redisKeyLatestDraw = "draw:latest"

func RedisKeyLatestDraw() string {
	return redisKeyLatestDraw
}
