package cache

import (
	"time"
)

// TimeUntilNext8AM は次の午前8時（日本時間）までの期間を返します。
// 銘柄情報は毎朝の更新を境にキャッシュを切り替えます。
func TimeUntilNext8AM() time.Duration {
	return untilNext8AM(time.Now())
}

func untilNext8AM(now time.Time) time.Duration {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		loc = time.FixedZone("JST", 9*60*60)
	}
	now = now.In(loc)

	// 次の午前8時を計算
	next8am := time.Date(now.Year(), now.Month(), now.Day(), 8, 0, 0, 0, loc)

	// 今日の午前8時が既に過ぎている場合は明日の午前8時を使用
	if !now.Before(next8am) {
		next8am = next8am.AddDate(0, 0, 1)
	}

	return next8am.Sub(now)
}
